// Package benchmark compares flexmsg against the protobuf runtime on the buoy
// messages. It holds benchmarks only.
package benchmark
