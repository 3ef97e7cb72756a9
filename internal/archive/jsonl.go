package archive

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/rcliao/memsift/internal/model"
)

// WriteJSONL writes records as newline-delimited JSON, one object per line.
func WriteJSONL(w io.Writer, recs []*model.Record) error {
	enc := json.NewEncoder(w)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// ReadJSONL reads newline-delimited JSON records until EOF.
func ReadJSONL(r io.Reader) ([]*model.Record, error) {
	dec := json.NewDecoder(r)
	var recs []*model.Record
	for {
		var rec model.Record
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, &rec)
	}
	return recs, nil
}
