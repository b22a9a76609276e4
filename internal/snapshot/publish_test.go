package snapshot

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/pgmeta/internal/errs"
	"github.com/koustreak/pgmeta/internal/filestore"
)

// memStore is an in-memory filestore.Store.
type memStore struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
	infos   map[string]filestore.ObjectInfo
	putErr  error
	clock   time.Time
}

func newMemStore() *memStore {
	return &memStore{
		buckets: map[string]bool{},
		objects: map[string][]byte{},
		infos:   map[string]filestore.ObjectInfo{},
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) Ping(context.Context) error { return nil }
func (m *memStore) Close() error               { return nil }

func (m *memStore) EnsureBucket(_ context.Context, bucket string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buckets[bucket] = true
	return nil
}

func (m *memStore) PutObject(_ context.Context, bucket, key string, r io.Reader, size int64, opts filestore.PutOptions) (*filestore.ObjectInfo, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if size >= 0 && int64(len(data)) != size {
		return nil, errors.New("short body")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.buckets[bucket] {
		return nil, errs.New(errs.ErrKindNotFound, "no such bucket")
	}
	m.clock = m.clock.Add(time.Second)
	info := filestore.ObjectInfo{
		Key:          key,
		Size:         int64(len(data)),
		ContentType:  opts.ContentType,
		LastModified: m.clock,
		Metadata:     opts.Metadata,
	}
	m.objects[bucket+"/"+key] = data
	m.infos[bucket+"/"+key] = info
	return &info, nil
}

func (m *memStore) ListObjects(_ context.Context, bucket string, opts filestore.ListOptions) ([]filestore.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []filestore.ObjectInfo
	for k, info := range m.infos {
		if strings.HasPrefix(k, bucket+"/"+opts.Prefix) {
			out = append(out, info)
		}
	}
	return out, nil
}

func (m *memStore) StatObject(_ context.Context, bucket, key string) (*filestore.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.infos[bucket+"/"+key]
	if !ok {
		return nil, errs.New(errs.ErrKindNotFound, "no such key")
	}
	return &info, nil
}

func (m *memStore) PresignGetURL(_ context.Context, bucket, key string, ttl time.Duration) (string, error) {
	return "https://store.local/" + bucket + "/" + key + "?ttl=" + ttl.String(), nil
}

func TestKey(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		schemas []string
		format  Format
		want    string
	}{
		{"sorted", "snapshots", []string{"public", "app"}, FormatJSON, "snapshots/app+public/abc.json"},
		{"all schemas", "", nil, FormatYAML, "all/abc.yaml"},
		{"repeated schema", "s", []string{"public", "public"}, FormatJSON, "s/public/abc.json"},
		{"repeats out of order", "", []string{"public", "app", "public", "app"}, FormatJSON, "app+public/abc.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.prefix, tt.schemas, "abc", tt.format))
		})
	}
}

func TestList_RepeatedSchemasShareSegment(t *testing.T) {
	store := newMemStore()
	opts := PublishOptions{Bucket: "meta", Schemas: []string{"public", "app"}}

	res, err := Publish(context.Background(), store, opts, sampleTables())
	require.NoError(t, err)

	listed, err := List(context.Background(), store, "meta", "", []string{"app", "public", "app"})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, res.Key, listed[0].Key)
}

func TestPublish(t *testing.T) {
	store := newMemStore()
	opts := PublishOptions{Bucket: "meta", Prefix: "snapshots", Format: FormatYAML, Schemas: []string{"public"}}

	res, err := Publish(context.Background(), store, opts, sampleTables())
	require.NoError(t, err)

	assert.Equal(t, "meta", res.Bucket)
	assert.Equal(t, "snapshots/public/"+res.ID+".yaml", res.Key)
	assert.Empty(t, res.URL)

	info, err := store.StatObject(context.Background(), "meta", res.Key)
	require.NoError(t, err)
	assert.Equal(t, "application/yaml", info.ContentType)
	assert.Equal(t, res.ID, info.Metadata["snapshot-id"])
	assert.Equal(t, "1", info.Metadata["tables"])
	assert.Contains(t, string(store.objects["meta/"+res.Key]), "name: orders")
}

func TestPublish_FreshKeyEachCall(t *testing.T) {
	store := newMemStore()
	opts := PublishOptions{Bucket: "meta", Schemas: []string{"public"}}

	first, err := Publish(context.Background(), store, opts, sampleTables())
	require.NoError(t, err)
	second, err := Publish(context.Background(), store, opts, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)

	listed, err := List(context.Background(), store, "meta", "", []string{"public"})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.Key, listed[0].Key)
	assert.Equal(t, second.Key, listed[1].Key)
}

func TestPublish_PresignedLink(t *testing.T) {
	store := newMemStore()
	opts := PublishOptions{Bucket: "meta", LinkTTL: time.Hour}

	res, err := Publish(context.Background(), store, opts, sampleTables())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.URL, "https://store.local/meta/all/"))
}

func TestPublish_Errors(t *testing.T) {
	t.Run("no bucket", func(t *testing.T) {
		_, err := Publish(context.Background(), newMemStore(), PublishOptions{}, nil)
		assert.True(t, errs.IsInvalidInput(err))
	})

	t.Run("store failure", func(t *testing.T) {
		store := newMemStore()
		store.putErr = errs.New(errs.ErrKindPermissionDenied, "denied")

		res, err := Publish(context.Background(), store, PublishOptions{Bucket: "meta"}, nil)
		assert.Nil(t, res)
		assert.True(t, errs.IsPermissionDenied(err))
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := Publish(context.Background(), newMemStore(), PublishOptions{Bucket: "meta", Format: "xml"}, nil)
		assert.True(t, errs.IsInvalidInput(err))
	})
}
