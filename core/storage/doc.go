// Package storage provides the object storage client used to archive run reports.
//
// It wraps the MinIO Go client behind a small Client interface so the archive can be
// tested with the testify mock in core/storage/mocks. Both AWS S3 and self-hosted MinIO
// endpoints are supported; the scheme of the endpoint is stripped and UseSSL decides
// the transport security.
//
// # Operations
//
//   - BucketExists / MakeBucket: prepare the archive bucket.
//   - PutObject: upload one report.
//   - GetObject: read a report back.
//   - ListObjects: enumerate reports under a prefix.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
