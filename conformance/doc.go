// Package conformance checks the flexmsg wire codec against the protobuf
// runtime. The buoy schemas are compiled from buoy.proto and
// proto/flexmsg/options.proto, and every encoding is compared with what
// dynamicpb produces for the same values.
package conformance
