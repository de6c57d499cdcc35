package storage

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

// UploadDir is where multipart image uploads land. Files in it are served
// statically under /uploads.
var UploadDir string

func InitializeUploads() string {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = filepath.Join("public", "uploads")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Panic("failed to create upload directory: " + err.Error())
	}

	UploadDir = dir
	return dir
}

// UniqueUploadName builds a collision-resistant filename preserving the
// original extension, matching the timestamp-random scheme of the upload API.
func UniqueUploadName(original string) string {
	ext := filepath.Ext(original)
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
}
