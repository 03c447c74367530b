package storage

import (
	"context"
	"testing"
)

func TestPrefixedStorage(t *testing.T) {
	inner := newLocal(t)
	docs := NewPrefixedStorage(inner, "/documents/")
	ctx := context.Background()

	if _, err := docs.Put(ctx, "a.json", []byte("doc")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	exists, err := inner.Exists(ctx, "documents/a.json")
	if err != nil || !exists {
		t.Fatalf("expected inner object documents/a.json, exists=%v err=%v", exists, err)
	}

	objects, err := docs.ListObjects(ctx, "")
	if err != nil {
		t.Fatalf("ListObjects failed: %v", err)
	}
	if len(objects) != 1 || objects[0] != "a.json" {
		t.Errorf("expected [a.json], got %v", objects)
	}

	got, err := docs.Get(ctx, "a.json")
	if err != nil || string(got) != "doc" {
		t.Errorf("Get = %q, %v", got, err)
	}
}
