// Copyright © 2024 Deep Origin

// Package storage provides an interface to the destinations of downloaded managed data.
//
// This package supports the following backends:
//   - local file system
//   - S3 (AWS)
//   - GCS (Google)
//
// Use the destination package to pick a backend from a URI.
package storage
