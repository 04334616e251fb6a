package graph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"
)

// SnappySuffix marks an edge list stored in snappy framed format.
const SnappySuffix = ".snappy"

// ErrUnsupportedScheme is returned for locations with an unknown URL scheme.
var ErrUnsupportedScheme = errors.New("unsupported source scheme")

// ObjectGetter is the subset of the S3 client used to fetch edge lists.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configures access to S3 or an S3-compatible store.
type S3Options struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// SourceOptions configures Open.
type SourceOptions struct {
	S3 S3Options
	// S3Client overrides the client built from S3.
	S3Client ObjectGetter
}

// Open returns a reader for the edge list at location. Local paths are
// memory-mapped; s3://bucket/key locations are fetched with GetObject. A
// ".snappy" suffix on either selects snappy framed decoding.
func Open(ctx context.Context, location string, opts SourceOptions) (io.ReadCloser, error) {
	rc, err := openRaw(ctx, location, opts)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(location, SnappySuffix) {
		return &readCloser{Reader: snappy.NewReader(rc), Closer: rc}, nil
	}
	return rc, nil
}

func openRaw(ctx context.Context, location string, opts SourceOptions) (io.ReadCloser, error) {
	if !strings.Contains(location, "://") {
		return openFile(location)
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid source location %q: %w", location, err)
	}

	switch u.Scheme {
	case "file":
		return openFile(u.Path)
	case "s3":
		return openS3(ctx, u, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
}

func openFile(path string) (io.ReadCloser, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &readCloser{
		Reader: io.NewSectionReader(r, 0, int64(r.Len())),
		Closer: r,
	}, nil
}

func openS3(ctx context.Context, u *url.URL, opts SourceOptions) (io.ReadCloser, error) {
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("invalid s3 location %q: bucket and key are required", u.String())
	}

	client := opts.S3Client
	if client == nil {
		c, err := NewS3Client(ctx, opts.S3)
		if err != nil {
			return nil, err
		}
		client = c
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

// NewS3Client builds an S3 client from the default AWS configuration chain,
// overridden by any static credentials, region or endpoint in opts.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
	}), nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

// LoadFrom opens location and loads the edge list it holds.
func LoadFrom(ctx context.Context, location string, srcOpts SourceOptions, loadOpts LoadOptions) (Graph, *LoadStats, error) {
	rc, err := Open(ctx, location, srcOpts)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	return Load(ctx, rc, loadOpts)
}
