// Package statelog reads the CSV written by the engine's StateDataReporter.
//
// The reporter writes a header line of the form
//
//	#"Step","Potential Energy (kJ/mole)","Temperature (K)"
//
// followed by one row per report interval, separated by commas or, when
// the reporter was given a tab separator, by tabs.
package statelog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/openmmdl/openmmdl-cli/internal/detect"
)

const (
	StepColumn   = "Step"
	EnergyColumn = "Potential Energy"
)

var (
	ErrNotStateLog = errors.New("statelog: not a state data log")
	ErrNoColumn    = errors.New("statelog: column not found")
	ErrEmpty       = errors.New("statelog: no data rows")
)

// Extensions are the file extensions scanned by Find.
var Extensions = []string{".csv", ".txt"}

type Log struct {
	Path    string
	Columns []string
	Rows    [][]float64
}

// Parse reads a state log. The separator is taken from the header line.
// Fields that are not numeric, such as the reporter's "--" placeholders and
// remaining-time values, are stored as NaN; rows with the wrong field count
// are skipped.
func Parse(r io.Reader) (*Log, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, []byte("#")) {
		return nil, ErrNotStateLog
	}
	data = data[1:]

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = separator(data)
	cr.FieldsPerRecord = -1
	// Trimming would also swallow empty tab separated fields.
	cr.TrimLeadingSpace = cr.Comma == ','

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotStateLog, err)
	}
	log := &Log{Columns: make([]string, len(header))}
	for i, h := range header {
		log.Columns[i] = strings.TrimSpace(h)
	}
	if log.column(StepColumn) < 0 {
		return nil, ErrNotStateLog
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(record) != len(log.Columns) {
			continue
		}
		row := make([]float64, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				v = math.NaN()
			}
			row[i] = v
		}
		log.Rows = append(log.Rows, row)
	}

	return log, nil
}

// separator picks tab when the header line has tabs and no commas.
func separator(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.IndexByte(line, '\t') >= 0 && bytes.IndexByte(line, ',') < 0 {
		return '\t'
	}
	return ','
}

func Load(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	log, err := Parse(f)
	if err != nil {
		return nil, err
	}
	log.Path = path
	return log, nil
}

// Find returns the newest state log directly inside dir. Files that are
// not state logs are skipped.
func Find(dir string) (*Log, error) {
	paths, err := detect.ByNewest(dir, Extensions...)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		log, err := Load(p)
		if err != nil {
			continue
		}
		if _, err := log.LastStep(); err == nil {
			return log, nil
		}
	}
	return nil, fmt.Errorf("%w in %s", detect.ErrNoMatch, filepath.Clean(dir))
}

// column matches a header by prefix so unit suffixes can be left off.
func (l *Log) column(name string) int {
	for i, c := range l.Columns {
		if c == name || strings.HasPrefix(c, name+" ") {
			return i
		}
	}
	return -1
}

// Series returns the numeric values of a column in row order.
func (l *Log) Series(name string) ([]float64, error) {
	idx := l.column(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoColumn, name)
	}
	out := make([]float64, 0, len(l.Rows))
	for _, row := range l.Rows {
		if !math.IsNaN(row[idx]) {
			out = append(out, row[idx])
		}
	}
	return out, nil
}

// LastStep returns the step of the final row that has one.
func (l *Log) LastStep() (int, error) {
	steps, err := l.Series(StepColumn)
	if err != nil {
		return 0, err
	}
	if len(steps) == 0 {
		return 0, ErrEmpty
	}
	return int(steps[len(steps)-1]), nil
}

// Plot renders column as an ASCII chart.
func (l *Log) Plot(w io.Writer, column string) error {
	data, err := l.Series(column)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrEmpty
	}

	caption := l.Columns[l.column(column)]
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	_, err = fmt.Fprintln(w, graph)
	return err
}
