package testutil

import (
	"fmt"
	"strings"
)

// FakeS3 records uploads in memory and hands back deterministic links so
// service tests never touch the network.
type FakeS3 struct {
	Uploaded map[string][]byte
	Deleted  []string
}

func NewFakeS3() *FakeS3 {
	return &FakeS3{Uploaded: make(map[string][]byte)}
}

func (f *FakeS3) UploadFile(fileName string, data []byte, contentType string, dir string, allowed ...string) (string, error) {
	objectKey := fmt.Sprintf("%s/%s", dir, fileName)
	f.Uploaded[objectKey] = data
	return objectKey, nil
}

func (f *FakeS3) DeleteFile(objectKey string) error {
	f.Deleted = append(f.Deleted, objectKey)
	delete(f.Uploaded, objectKey)
	return nil
}

func (f *FakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://storage.test/" + objectKey
}

func (f *FakeS3) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://storage.test/")
}
