package store

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
)

const trackTxns = true

// Engine selects the storage backend.
type Engine int

const (
	// Memory keeps everything in a sorted in-process list. Nothing is
	// persisted; it is meant for tests.
	Memory Engine = iota
	// Bolt stores data in a single go.etcd.io/bbolt file at Options.Path.
	Bolt
	// Pebble stores data in a github.com/cockroachdb/pebble directory at
	// Options.Path, or in memory if Path is empty.
	Pebble
)

func (e Engine) String() string {
	switch e {
	case Memory:
		return "memory"
	case Bolt:
		return "bolt"
	case Pebble:
		return "pebble"
	default:
		return fmt.Sprintf("engine(%d)", int(e))
	}
}

type Options struct {
	Engine Engine
	Path   string

	// Logger receives debug logs of every write when Verbose is set, and
	// warnings otherwise. Defaults to slog.Default().
	Logger  *slog.Logger
	Verbose bool

	// IsTesting trades durability for speed: no fsync, no WAL.
	IsTesting bool

	// MmapSize is the initial mmap size for Bolt.
	MmapSize int
}

type DB struct {
	st      storage
	engine  Engine
	logger  *slog.Logger
	verbose bool
	strict  bool
	closed  atomic.Bool

	ReaderCount atomic.Int64
	WriterCount atomic.Int64
	ReadCount   atomic.Uint64
	WriteCount  atomic.Uint64

	txns     []*Tx
	txnsLock sync.Mutex
}

func Open(opt Options) (*DB, error) {
	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var st storage
	var err error
	switch opt.Engine {
	case Memory:
		st = newMemStorage()
	case Bolt:
		if opt.Path == "" {
			return nil, errors.New("store: bolt engine requires a path")
		}
		st, err = openBoltStorage(opt.Path, opt)
	case Pebble:
		st, err = openPebbleStorage(opt.Path, opt)
	default:
		return nil, errors.Newf("store: unknown engine %v", opt.Engine)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "store: open %v", opt.Engine)
	}

	db := &DB{
		st:      st,
		engine:  opt.Engine,
		logger:  logger.With("engine", opt.Engine.String()),
		verbose: opt.Verbose,
		strict:  opt.IsTesting,
	}
	return db, nil
}

func (db *DB) Engine() Engine {
	return db.engine
}

// Close closes the underlying storage. Open transactions must be finished
// first.
func (db *DB) Close() error {
	if db.closed.Swap(true) {
		return nil
	}
	if n := db.openTxnCount(); n > 0 {
		db.logger.Warn("closing with open transactions", "count", n)
	}
	if err := db.st.Close(); err != nil {
		return errors.Wrap(err, "store: closing")
	}
	return nil
}

func (db *DB) addTx(tx *Tx) {
	if !trackTxns {
		return
	}
	db.txnsLock.Lock()
	defer db.txnsLock.Unlock()
	db.txns = append(db.txns, tx)
}

func (db *DB) removeTx(tx *Tx) {
	if !trackTxns {
		return
	}
	db.txnsLock.Lock()
	defer db.txnsLock.Unlock()

	found := slices.Index(db.txns, tx)
	if found < 0 {
		panic("tx not found in list")
	}

	n := len(db.txns)
	db.txns[found] = db.txns[n-1]
	db.txns[n-1] = nil // ensure it gets collected
	db.txns = db.txns[:n-1]
}

func (db *DB) openTxnCount() int {
	db.txnsLock.Lock()
	defer db.txnsLock.Unlock()
	return len(db.txns)
}

// DescribeOpenTxns lists the open transactions, oldest first, with the stack
// that started each one that has been open for 100 ms or longer.
func (db *DB) DescribeOpenTxns() string {
	if !trackTxns {
		return "OPEN TX TRACKING DISABLED"
	}

	db.txnsLock.Lock()
	txns := slices.Clone(db.txns)
	db.txnsLock.Unlock()

	if len(txns) == 0 {
		return "NO OPEN TRANSACTIONS"
	}

	slices.SortFunc(txns, func(a, b *Tx) int {
		return a.startTime.Compare(b.startTime)
	})

	now := time.Now()

	var buf strings.Builder
	fmt.Fprintf(&buf, "%d OPEN TRANSACTIONS:\n", len(txns))
	for _, tx := range txns {
		ms := now.Sub(tx.startTime).Milliseconds()
		if ms < 100 {
			fmt.Fprintf(&buf, "\n---\nopen for %d ms\n", ms)
		} else {
			fmt.Fprintf(&buf, "\n---\nopen for %d ms:\n%s", ms, tx.stack)
		}
	}

	return buf.String()
}
