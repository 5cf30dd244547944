// Package monitoring provides a web server that exposes the state of spike
// generators while a replay is running.
package monitoring

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
	"strings"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/DHRUVJ2003/brian2/monitoring/web"
	"github.com/DHRUVJ2003/brian2/sim"
	"github.com/DHRUVJ2003/brian2/spikegen"
)

// Monitor can turn a spike replay into a server and allows external
// inspection of the registered generators.
type Monitor struct {
	timeTeller     sim.TimeTeller
	generators     []*spikegen.Comp
	portNumber     int
	metricsHandler http.Handler
	openBrowser    bool
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithMetricsHandler serves the given handler at /metrics.
func (m *Monitor) WithMetricsHandler(h http.Handler) *Monitor {
	m.metricsHandler = h

	return m
}

// WithBrowserOpening opens the dashboard in the system browser when the
// server starts.
func (m *Monitor) WithBrowserOpening() *Monitor {
	m.openBrowser = true

	return m
}

// RegisterTimeTeller registers the clock that reports the replay time.
func (m *Monitor) RegisterTimeTeller(t sim.TimeTeller) {
	m.timeTeller = t
}

// RegisterGenerator registers a spike generator to be monitored.
func (m *Monitor) RegisterGenerator(g *spikegen.Comp) {
	m.generators = append(m.generators, g)
}

// StartServer starts the monitor as a web server with a custom port if
// wanted.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	fs := web.GetAssets()
	fServer := http.FileServer(fs)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/list_generators", m.listGenerators)
	r.HandleFunc("/api/generator/{name}/spikes", m.listGeneratorSpikes)
	r.HandleFunc("/api/generator/{name}", m.listGeneratorDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	if m.metricsHandler != nil {
		r.Handle("/metrics", m.metricsHandler)
	}
	r.PathPrefix("/").Handler(fServer)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring spike replay with %s\n", url)

	if m.openBrowser {
		err := browser.OpenURL(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open browser: %s\n", err)
		}
	}

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.timeTeller.CurrentTime()
	fmt.Fprintf(w, "{\"now\":%.10f}", now)
}

func (m *Monitor) listGenerators(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, g := range m.generators {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "\"%s\"", g.Name())
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) listGeneratorDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	generator := m.findGeneratorOr404(w, name)
	if generator == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(generator)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	GeneratorName string `json:"generator_name,omitempty"`
	FieldName     string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	if err != nil {
		dieOnErr(err)
	}

	name := req.GeneratorName
	fields := strings.Split(req.FieldName, ".")

	generator := m.findGeneratorOr404(w, name)
	if generator == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(generator)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(fields)
	dieOnErr(err)

	err = serializer.Serialize(w)
	dieOnErr(err)
}

type spikeRow struct {
	Number int32          `json:"number"`
	Neuron int32          `json:"neuron"`
	Time   sim.VTimeInSec `json:"time"`
}

func (m *Monitor) listGeneratorSpikes(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	generator := m.findGeneratorOr404(w, name)
	if generator == nil {
		return
	}

	limit, offset, err := spikesParseParams(r)
	if err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	rows := selectSpikes(generator, limit, offset)

	bytes, err := json.Marshal(rows)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func spikesParseParams(r *http.Request) (limit, offset int, err error) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		limitStr = "0"
	}
	limitNumber, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, 0, err
	}

	offsetStr := r.URL.Query().Get("offset")
	if offsetStr == "" {
		offsetStr = "0"
	}
	offsetNumber, err := strconv.Atoi(offsetStr)
	if err != nil {
		return limitNumber, 0, err
	}

	return limitNumber, offsetNumber, nil
}

func selectSpikes(g *spikegen.Comp, limit, offset int) []spikeRow {
	numbers := g.SpikeNumber()
	neurons := g.NeuronIndex()
	times := g.SpikeTime()

	if offset > len(times) {
		offset = len(times)
	}

	end := len(times)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	rows := make([]spikeRow, 0, end-offset)
	for i := offset; i < end; i++ {
		rows = append(rows, spikeRow{
			Number: numbers[i],
			Neuron: neurons[i],
			Time:   times[i],
		})
	}

	return rows
}

func (m *Monitor) findGeneratorOr404(
	w http.ResponseWriter,
	name string,
) *spikegen.Comp {
	var generator *spikegen.Comp
	for _, g := range m.generators {
		if g.Name() == name {
			generator = g
		}
	}

	if generator == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Generator not found"))
		dieOnErr(err)
	}

	return generator
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
