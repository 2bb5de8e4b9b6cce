// Package archive writes a bundle of the rendered artifact bodies for each
// completed invocation to a blob bucket, keyed by correlation id. It is an
// audit trail, not workflow state; runs proceed identically without it
package archive

import (
	"context"
	"encoding/json"
	"time"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/kestrelops/liaison/pkg/api"
)

type (
	// Bundle is the archived payload for one invocation
	Bundle struct {
		Workflow      string            `json:"workflow"`
		CorrelationID api.CorrelationID `json:"correlation_id"`
		Result        api.Result        `json:"result"`
		Rendered      map[string]string `json:"rendered,omitempty"`
		ArchivedAt    time.Time         `json:"archived_at"`
	}

	// Archive writes bundles to a blob bucket
	Archive struct {
		bucket *blob.Bucket
		prefix string
	}
)

// Open connects an archive to the bucket named by a gocloud URL
// (file://, mem://, s3://, ...)
func Open(ctx context.Context, bucketURL, prefix string) (*Archive, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, err
	}
	return &Archive{bucket: bucket, prefix: prefix}, nil
}

// Put stores the bundle for one invocation. Safe to call on a nil archive
func (a *Archive) Put(ctx context.Context, bundle Bundle) error {
	if a == nil {
		return nil
	}
	if bundle.ArchivedAt.IsZero() {
		bundle.ArchivedAt = time.Now()
	}

	data, err := json.Marshal(bundle)
	if err != nil {
		return err
	}
	return a.bucket.WriteAll(ctx, a.keyFor(bundle.CorrelationID), data, nil)
}

// Get retrieves the bundle for one correlation id, or nil when absent
func (a *Archive) Get(
	ctx context.Context, corr api.CorrelationID,
) (*Bundle, error) {
	data, err := a.bucket.ReadAll(ctx, a.keyFor(corr))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, nil
		}
		return nil, err
	}

	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// Close releases the bucket
func (a *Archive) Close() error {
	if a == nil {
		return nil
	}
	return a.bucket.Close()
}

func (a *Archive) keyFor(corr api.CorrelationID) string {
	return a.prefix + string(corr) + ".json"
}
