/*
Package store is an embedded ordered key-value store that uses keycoder
encodings as its physical keys.

Rows live in collections and are addressed by keycoder.Key primary keys.
Values are serialized with the collection's Encoding. Secondary indexes map
the keys returned by an IndexFunc back to primary keys, and are kept up to date
by Put and Delete.

	users := store.NewCollection("users", store.MsgPack)
	byEmail := users.AddIndex("email", func(key keycoder.Key, val any) []keycoder.Key {
		return []keycoder.Key{{keycoder.Text(val.(*User).Email)}}
	})

	db, err := store.Open(store.Options{Engine: store.Bolt, Path: "app.db"})
	...
	err = db.Update(func(tx *store.Tx) error {
		return tx.Put(users, keycoder.MustKey("eu", 42), &User{Email: "a@example.com"})
	})

Since keycoder preserves order, a Range over keys turns into a contiguous range
of bytes: Prefix(p) scans everything that starts with p, bounded above by
p followed by the range sentinel.

Three engines are available: Memory (tests), Bolt (go.etcd.io/bbolt) and
Pebble (github.com/cockroachdb/pebble). All of them keep the whole keyspace in
one ordered namespace.
*/
package store
