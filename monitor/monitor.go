// Package monitor turns a running desim.Engine into an HTTP-introspectable
// server: pause/continue, current simulated time, CPU/memory usage, and a
// CPU profile snapshot, plus arbitrary user-registered probe values
// serialized to JSON. Grounded on the teacher's monitoring.Monitor
// (monitoring/monitor.go), trimmed to the concerns that still make sense
// without akita's sim.Component/sim.Buffer model: pause/continue/now/run
// survive unchanged, the buffer hang-detector and tick endpoints do not
// (desim has no buffers or tickable components), and RegisterProbe
// replaces RegisterComponent as the generic "expose this value over HTTP"
// mechanism.
package monitor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	// Enable pprof's own HTTP handlers under /debug/pprof/.
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/syifan/goseth"

	"github.com/dcsdes/desim"
)

// Monitor serves introspection and control endpoints for one Engine.
type Monitor struct {
	engine     *desim.Engine
	portNumber int
	addr       string

	probesLock sync.Mutex
	probes     map[string]any
}

// NewMonitor creates a Monitor. Call RegisterEngine before StartServer.
func NewMonitor() *Monitor {
	return &Monitor{probes: make(map[string]any)}
}

// WithPortNumber sets the port the server listens on. A value below 1000
// is rejected in favor of an OS-assigned random port, the same guard the
// teacher's Monitor applies to avoid colliding with privileged ports.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"desim/monitor: port %d is not allowed for the monitoring server; "+
				"using a random port instead\n", portNumber)

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine to monitor and control.
func (m *Monitor) RegisterEngine(e *desim.Engine) {
	m.engine = e
}

// Addr returns the server's base URL (e.g. "http://localhost:54321"). It
// is empty until StartServer has been called successfully.
func (m *Monitor) Addr() string {
	return m.addr
}

// RegisterProbe exposes v (any struct, typically a domain model's live
// state) at GET /api/probe/{name}, serialized with goseth the same way
// the teacher serializes sim.Component values.
func (m *Monitor) RegisterProbe(name string, v any) {
	m.probesLock.Lock()
	defer m.probesLock.Unlock()

	m.probes[name] = v
}

// StartServer starts the HTTP server in the background and returns once
// it is listening. If openBrowser is true, it also opens the server's base
// URL (see Addr) in the system's default browser; no page is served at
// that root, only the /api and /debug/pprof routes below.
func (m *Monitor) StartServer(openBrowser bool) error {
	r := mux.NewRouter()
	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/state", m.state)
	r.HandleFunc("/api/run", m.run)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.HandleFunc("/api/probe/{name}", m.listProbe)
	// net/http/pprof registers its handlers on http.DefaultServeMux as a
	// side effect of being imported; mount that mux under /debug/pprof/ on
	// our own router instead of serving DefaultServeMux directly, so a
	// process hosting more than one Monitor never collides on "/".
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	actualPort := ":0"
	if m.portNumber >= 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://localhost:%d", listener.Addr().(*net.TCPAddr).Port)
	m.addr = url

	fmt.Fprintf(os.Stderr, "desim/monitor: serving at %s\n", url)

	go func() {
		if serveErr := http.Serve(listener, r); serveErr != nil {
			log.Printf("desim/monitor: server exited: %v", serveErr)
		}
	}()

	if openBrowser {
		return browser.OpenURL(url)
	}

	return nil
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, `{"now":%.10f}`, m.engine.SimulatedTime())
}

func (m *Monitor) state(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, `{"state":%q,"end_of_simulation":%t}`,
		m.engine.State().String(), m.engine.EndOfSimulation())
}

func (m *Monitor) run(_ http.ResponseWriter, _ *http.Request) {
	go func() {
		if err := m.engine.Run(); err != nil {
			log.Printf("desim/monitor: run ended with error: %v", err)
		}
	}()
}

func (m *Monitor) listProbe(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	m.probesLock.Lock()
	probe, ok := m.probes[name]
	m.probesLock.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "probe %q not registered", name)

		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(probe)
	serializer.SetMaxDepth(2)

	if err := serializer.Serialize(w); err != nil {
		log.Printf("desim/monitor: serializing probe %q: %v", name, err)
	}
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	memoryInfo, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	body, err := json.Marshal(resourceRsp{CPUPercent: cpuPercent, MemorySize: memoryInfo.RSS})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	time.Sleep(time.Second)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	body, err := json.Marshal(prof)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
