// Package envi reads ENVI sidecar headers (.hdr) into a Header mapping and encodes the subset of header
// fields which accompany a decoded scene record.
//
// A header is a text file whose first line contains the marker "ENVI", followed by "key = value" lines.
// Values which start with '{' may span several lines and are either free text (the "description" key)
// or comma separated lists (e.g. "wavelength", "band names").
package envi
