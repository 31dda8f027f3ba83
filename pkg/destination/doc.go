// Package destination holds the configuration shapes for delivering a stream of records
// into S3: buffering, compression, encryption, error logging, data processors and an
// optional backup copy. Values are plain data; defaulting and validation live in the
// manifest package and rendering in the template package.
package destination
