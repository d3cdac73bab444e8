package weavetest

import (
	"io/ioutil"
	"os"
	"testing"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/store/iavl"
)

// CommitKVStore opens the leveldb backed iavl store a node runs on, in a
// temporary directory removed by cleanup.
func CommitKVStore(t testing.TB) (db anchortl.CommitKVStore, cleanup func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "weavetest")
	if err != nil {
		t.Fatalf("temp dir: %s", err)
	}
	cleanup = func() { os.RemoveAll(dir) }
	db, err = iavl.NewCommitStore(dir, "db")
	if err != nil {
		cleanup()
		t.Fatalf("open store: %s", err)
	}
	return db, cleanup
}
