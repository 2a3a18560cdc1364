// Package profile starts and stops runtime profiling of the compiler.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Config.Start] returns a no-op
// stopper, so callers never need their own build constraints.
//
// A profile is written by github.com/pkg/profile into the configured
// directory when the returned stopper's Stop method is called:
//
//	stop := profile.Config{Mode: "cpu", Dir: dir, Quiet: true}.Start()
//	defer stop.Stop()
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
