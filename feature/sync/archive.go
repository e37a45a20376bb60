package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"catalog-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// Archiver writes run reports as JSON objects to a bucket.
type Archiver struct {
	client storage.Client
	bucket string
	prefix string
}

// NewArchiver creates an archiver for the bucket. Objects are written under prefix.
func NewArchiver(client storage.Client, bucket, prefix string) *Archiver {
	return &Archiver{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	return nil
}

// ObjectName returns <prefix>/<mode>/<started>-<run id>.json for the report.
func (a *Archiver) ObjectName(r *Report) string {
	name := fmt.Sprintf("%s-%s.json", r.StartedAt.UTC().Format("20060102T150405Z"), r.RunID)
	return path.Join(a.prefix, string(r.Mode), name)
}

// Archive uploads the report and returns its object name.
func (a *Archiver) Archive(ctx context.Context, r *Report) (string, error) {
	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	name := a.ObjectName(r)
	_, err = a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return name, nil
}

// Load reads an archived report back.
func (a *Archiver) Load(ctx context.Context, name string) (*Report, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return &r, nil
}

// List returns the archived object names of a mode, oldest first.
func (a *Archiver) List(ctx context.Context, mode Mode) ([]string, error) {
	prefix := path.Join(a.prefix, string(mode)) + "/"

	var names []string
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		if strings.HasSuffix(obj.Key, ".json") {
			names = append(names, obj.Key)
		}
	}
	sort.Strings(names)
	return names, nil
}
