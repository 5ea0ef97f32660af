// Package profiling writes CPU and heap profiles requested on the command line
// and can serve net/http/pprof for live inspection.
package profiling

import (
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/maxstrb/greenfm/pkg/logging"
	"github.com/spf13/cobra"
)

var osCreate = os.Create
var pprofStartCPUProfile = pprof.StartCPUProfile
var pprofStopCPUProfile = pprof.StopCPUProfile
var pprofWriteHeapProfile = pprof.WriteHeapProfile
var httpListenAndServe = http.ListenAndServe

var log = logging.NewLogger("profiling")

// DoCPUProfiling starts a CPU profile written to path and returns the func that stops it.
// Failures are logged; the returned func is never nil.
func DoCPUProfiling(path string) func() {
	f, err := osCreate(path)
	if err != nil {
		log.WithError(err).Errorf("could not create CPU profile %s", path)
		return func() {}
	}
	if err = pprofStartCPUProfile(f); err != nil {
		log.WithError(err).Error("could not start CPU profile")
		_ = f.Close()
		return func() {}
	}
	return func() {
		pprofStopCPUProfile()
		if err := f.Close(); err != nil {
			log.WithError(err).Errorf("could not close CPU profile %s", path)
		}
	}
}

// DoMemProfiling returns a func that writes the current heap profile to path.
func DoMemProfiling(path string) func() {
	return func() {
		f, err := osCreate(path)
		if err != nil {
			log.WithError(err).Errorf("could not create memory profile %s", path)
			return
		}
		defer func() {
			_ = f.Close()
		}()
		runtime.GC()
		if err = pprofWriteHeapProfile(f); err != nil {
			log.WithError(err).Error("could not write memory profile")
		}
	}
}

// ServePprof serves the pprof handlers of http.DefaultServeMux on addr in the background.
func ServePprof(addr string) {
	go func() {
		if err := httpListenAndServe(addr, nil); err != nil {
			log.WithError(err).Errorf("pprof server on %s stopped", addr)
		}
	}()
}

// Profiler binds the profiling flags to a cobra command tree.
type Profiler struct {
	cpuProfilePath string
	memProfilePath string
	pprofAddr      string
	stopCPU        func()
	serving        bool
}

func (p *Profiler) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&p.cpuProfilePath, "cpu-profile", "", "Write CPU profile to `file`")
	cmd.PersistentFlags().StringVar(&p.memProfilePath, "mem-profile", "", "Write memory profile to `file` on exit")
	cmd.PersistentFlags().StringVar(&p.pprofAddr, "pprof", "", "Serve pprof over HTTP on `address` (e.g. localhost:6060)")
}

// Start begins CPU profiling and the pprof server if they were requested.
func (p *Profiler) Start() {
	if p.cpuProfilePath != "" && p.stopCPU == nil {
		p.stopCPU = DoCPUProfiling(p.cpuProfilePath)
	}
	if p.pprofAddr != "" && !p.serving {
		p.serving = true
		ServePprof(p.pprofAddr)
	}
}

// Stop finishes CPU profiling and writes the heap profile.
func (p *Profiler) Stop() {
	if p.stopCPU != nil {
		p.stopCPU()
		p.stopCPU = nil
	}
	if p.memProfilePath != "" {
		DoMemProfiling(p.memProfilePath)()
	}
}
