package frames

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// StateRecord is one line of a state file: the A.1 epoch followed by the
// position (km) and velocity (km/s).
type StateRecord struct {
	Epoch float64
	State State6
}

// FromText initializes from text.
// The `record` parameter must be an array of seven items.
func (s *StateRecord) FromText(record []string) error {
	if len(record) != 7 {
		return fmt.Errorf("expected 7 fields (epoch, x, y, z, vx, vy, vz), got %d", len(record))
	}
	epoch, err := strconv.ParseFloat(record[0], 64)
	if err != nil {
		return fmt.Errorf("epoch: %s", err)
	}
	s.Epoch = epoch
	for i := 0; i < 6; i++ {
		if s.State[i], err = strconv.ParseFloat(record[i+1], 64); err != nil {
			return fmt.Errorf("component %d: %s", i, err)
		}
	}
	return nil
}

// ToText converts to text for written output.
func (s *StateRecord) ToText() []string {
	out := make([]string, 7)
	out[0] = strconv.FormatFloat(s.Epoch, 'f', -1, 64)
	for i := 0; i < 6; i++ {
		out[i+1] = strconv.FormatFloat(s.State[i], 'f', -1, 64)
	}
	return out
}

// ReadStates parses comma separated state records; lines starting with # are skipped.
func ReadStates(r io.Reader) ([]StateRecord, error) {
	var records []StateRecord
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	for line := 1; ; line++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var rec StateRecord
		if err := rec.FromText(fields); err != nil {
			return nil, fmt.Errorf("record %d: %s", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteStates writes the records after a header naming the frame.
func WriteStates(w io.Writer, frame string, records []StateRecord) error {
	ch := make(chan StateRecord, len(records))
	for _, rec := range records {
		ch <- rec
	}
	close(ch)
	return StreamStates(w, frame, ch)
}

// StreamStates writes every record read from the channel until it is closed.
func StreamStates(w io.Writer, frame string, states <-chan StateRecord) error {
	if _, err := fmt.Fprintf(w, "# frame: %s\n# epoch (A.1 MJD),x,y,z,vx,vy,vz\n", frame); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	for rec := range states {
		if err := cw.Write(rec.ToText()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
