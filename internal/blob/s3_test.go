package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
)

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestPutAudio(t *testing.T) {
	fake := &fakeS3{}
	u := newS3Uploader(fake, "audio", "https://cdn.example.com/audio/")
	userID := uuid.New()

	url, err := u.PutAudio(context.Background(), userID, "Memo.WEBM", "audio/webm", []byte("clip"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := aws.StringValue(fake.input.Key)
	if !strings.HasPrefix(key, "recordings/"+userID.String()+"/") || !strings.HasSuffix(key, ".webm") {
		t.Errorf("unexpected key %q", key)
	}
	if aws.StringValue(fake.input.Bucket) != "audio" {
		t.Errorf("unexpected bucket %q", aws.StringValue(fake.input.Bucket))
	}
	if aws.StringValue(fake.input.ContentType) != "audio/webm" {
		t.Errorf("unexpected content type %q", aws.StringValue(fake.input.ContentType))
	}
	if string(fake.body) != "clip" {
		t.Errorf("unexpected body %q", fake.body)
	}
	if url != "https://cdn.example.com/audio/"+key {
		t.Errorf("unexpected url %q", url)
	}
}

func TestPutAudio_Error(t *testing.T) {
	u := newS3Uploader(&fakeS3{err: errors.New("denied")}, "audio", "https://cdn.example.com/audio")

	_, err := u.PutAudio(context.Background(), uuid.New(), "memo", "", []byte("clip"))
	if err == nil {
		t.Fatal("expected error")
	}
}
