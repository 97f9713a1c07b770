package objectstore

import (
	"bytes"
	"fmt"
	stdio "io"
	"path"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/weberc2/myfs/pkg/io"
	. "github.com/weberc2/myfs/pkg/types"
)

const (
	ImageSizeMismatchErr ConstError = "image size does not match volume capacity"

	ImageSuffix = ".img.gz"
)

// ImageKey builds a fresh key of the form `<prefix>/<slug>/<uuid>.img.gz`.
func ImageKey(prefix, label string) string {
	return path.Join(prefix, slug.Make(label), uuid.NewString()+ImageSuffix)
}

// ListImages returns the keys of every image stored under `label`.
func ListImages(
	store ObjectStore,
	bucket string,
	prefix string,
	label string,
) ([]string, error) {
	keys, err := store.ListObjects(bucket, path.Join(prefix, slug.Make(label))+"/")
	if err != nil {
		return nil, fmt.Errorf("listing images for `%s`: %w", label, err)
	}
	return keys, nil
}

// PushImage uploads the volume's full content.
func PushImage(store ObjectStore, bucket, key string, volume io.Volume) error {
	image := make([]byte, volume.Capacity())
	if err := volume.ReadAt(0, image); err != nil {
		return fmt.Errorf("pushing image to `%s/%s`: %w", bucket, key, err)
	}
	if err := store.PutObject(bucket, key, bytes.NewReader(image)); err != nil {
		return fmt.Errorf("pushing image to `%s/%s`: %w", bucket, key, err)
	}
	return nil
}

// PullImage overwrites the volume with a stored image. The image must be
// exactly as large as the volume.
func PullImage(store ObjectStore, bucket, key string, volume io.Volume) error {
	body, err := store.GetObject(bucket, key)
	if err != nil {
		return fmt.Errorf("pulling image from `%s/%s`: %w", bucket, key, err)
	}
	defer body.Close()

	// one extra byte is enough to detect an oversized image
	capacity := int64(volume.Capacity())
	image, err := stdio.ReadAll(stdio.LimitReader(body, capacity+1))
	if err != nil {
		return fmt.Errorf("pulling image from `%s/%s`: %w", bucket, key, err)
	}
	if int64(len(image)) != capacity {
		return fmt.Errorf(
			"pulling image from `%s/%s`: image has `%d` bytes; volume has "+
				"`%d`: %w",
			bucket,
			key,
			len(image),
			capacity,
			ImageSizeMismatchErr,
		)
	}

	if err := volume.WriteAt(0, image); err != nil {
		return fmt.Errorf("pulling image from `%s/%s`: %w", bucket, key, err)
	}
	return nil
}
