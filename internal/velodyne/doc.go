// Package velodyne decodes Velodyne-style rotating-LiDAR UDP packets
// into firings, projects them into sensor-frame Cartesian points, and
// batches them into full-revolution frames. The decode pipeline
// (Parse, ExtractFirings, ConvertFiring, Batcher) is single-threaded
// and pull-driven; UDPListener and ReplayPCAP are the only components
// that own a goroutine or perform blocking I/O.
package velodyne
