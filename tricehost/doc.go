// Package tricehost renders decoded trace records into human-readable text
// lines, the job the embedded side deliberately refuses to do. It resolves
// record IDs against a format table produced at build time, assembles the
// rendered fragments into timestamped lines, and can republish those lines
// to any number of live subscribers over Server-Sent Events.
//
// The package also maintains the format table itself: validating entries,
// computing the free id space, and assigning ids to new format strings.
package tricehost
