package snapshot

import (
	"bytes"
	"context"
	"path"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/koustreak/pgmeta/internal/catalog"
	"github.com/koustreak/pgmeta/internal/errs"
	"github.com/koustreak/pgmeta/internal/filestore"
)

// PublishOptions says where and how a snapshot is stored.
type PublishOptions struct {
	Bucket string
	Prefix string
	Format Format

	// Schemas names the schema set the tables were fetched for. It becomes
	// one key segment ("public+sales"); empty means "all".
	Schemas []string

	// LinkTTL, when positive, asks for a presigned download link.
	LinkTTL time.Duration
}

// Result describes one published snapshot.
type Result struct {
	ID     string                `json:"id"`
	Bucket string                `json:"bucket"`
	Key    string                `json:"key"`
	URL    string                `json:"url,omitempty"`
	Object *filestore.ObjectInfo `json:"-"`
}

// Publish encodes tables and writes them as a new object. Every call
// produces a new key; existing snapshots are never overwritten.
func Publish(ctx context.Context, store filestore.Store, opts PublishOptions, tables []catalog.Table) (*Result, error) {
	if opts.Bucket == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "snapshot bucket is required")
	}
	format := opts.Format
	if format == "" {
		format = FormatJSON
	}

	var buf bytes.Buffer
	if err := Encode(&buf, tables, format); err != nil {
		return nil, err
	}

	if err := store.EnsureBucket(ctx, opts.Bucket); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	key := Key(opts.Prefix, opts.Schemas, id, format)

	info, err := store.PutObject(ctx, opts.Bucket, key, &buf, int64(buf.Len()), filestore.PutOptions{
		ContentType: format.ContentType(),
		Metadata: map[string]string{
			"snapshot-id": id,
			"schemas":     schemaSegment(opts.Schemas),
			"tables":      strconv.Itoa(len(tables)),
		},
	})
	if err != nil {
		return nil, err
	}

	res := &Result{ID: id, Bucket: opts.Bucket, Key: key, Object: info}
	if opts.LinkTTL > 0 {
		res.URL, err = store.PresignGetURL(ctx, opts.Bucket, key, opts.LinkTTL)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// List returns the snapshots already published for a schema set, oldest
// first by modification time.
func List(ctx context.Context, store filestore.Store, bucket, prefix string, schemas []string) ([]filestore.ObjectInfo, error) {
	dir := path.Join(prefix, schemaSegment(schemas)) + "/"
	objs, err := store.ListObjects(ctx, bucket, filestore.ListOptions{Prefix: dir, Recursive: true})
	if err != nil {
		return nil, err
	}
	out := objs[:0]
	for _, o := range objs {
		if !o.IsDir {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastModified.Before(out[j].LastModified)
	})
	return out, nil
}

// Key builds "<prefix>/<schema-set>/<id>.<ext>". The schema set is sorted
// with repeats dropped.
func Key(prefix string, schemas []string, id string, format Format) string {
	return path.Join(prefix, schemaSegment(schemas), id+"."+format.Ext())
}

func schemaSegment(schemas []string) string {
	if len(schemas) == 0 {
		return "all"
	}
	sorted := append([]string(nil), schemas...)
	sort.Strings(sorted)
	return strings.Join(slices.Compact(sorted), "+")
}
