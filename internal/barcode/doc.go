// Package barcode decodes scannable codes from raster images.
//
// Decoding is delegated to a named library backend. The only library shipped
// today is gozxing, a pure Go port of ZXing. A binary built with the
// `barcode_none` tag links no decoder at all; every decode then fails with a
// MissingDependencyError instead of pretending that nothing was found.
//
// Example:
//
//	go build -tags=barcode_none ./...
package barcode
