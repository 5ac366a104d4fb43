package mfe

import (
	"encoding/json"
	"strconv"

	mf "github.com/pbanos/mfe/metafeature"
)

/*
RecordEncodeDecoder is an interface for objects that allow encoding records
into slices of bytes and decoding them back to records.
*/
type RecordEncodeDecoder interface {
	// Encode receives a *Record and returns a slice of bytes with the
	// record encoded or an error if the encoding could not be performed.
	Encode(*Record) ([]byte, error)
	// Decode receives a slice of bytes and returns the *Record decoded from
	// it or an error if the decoding could not be performed.
	Decode([]byte) (*Record, error)
}

type jsonRecordEncodeDecoder struct{}

type jsonRecord struct {
	ID          string        `json:"id"`
	Name        string        `json:"name,omitempty"`
	RandomState int64         `json:"rs"`
	Entries     []jsonEntry   `json:"entries,omitempty"`
	Failures    []jsonFailure `json:"failures,omitempty"`
}

// Numbers are kept as strings as JSON cannot represent NaN or infinities.
type jsonEntry struct {
	Name   string   `json:"n"`
	Group  string   `json:"g,omitempty"`
	Scalar string   `json:"s,omitempty"`
	Vector []string `json:"v,omitempty"`
	IsVec  bool     `json:"isv,omitempty"`
}

type jsonFailure struct {
	Feature string      `json:"f,omitempty"`
	Group   string      `json:"g,omitempty"`
	Kind    FailureKind `json:"k"`
	Err     string      `json:"e"`
}

// decodedError holds the message of an error decoded from a stored record
type decodedError string

func (de decodedError) Error() string {
	return string(de)
}

/*
JSONRecordEncodeDecoder returns a RecordEncodeDecoder that encodes records
as JSON documents. Errors of failures are decoded as errors with the same
message as the original.
*/
func JSONRecordEncodeDecoder() RecordEncodeDecoder {
	return jsonRecordEncodeDecoder{}
}

func (jsonRecordEncodeDecoder) Encode(r *Record) ([]byte, error) {
	jr := &jsonRecord{ID: r.ID, Name: r.Name}
	if r.Result != nil {
		jr.RandomState = r.Result.RandomState
		for _, e := range r.Result.Entries {
			je := jsonEntry{Name: e.Name, Group: e.Group, IsVec: e.Value.IsVector()}
			if je.IsVec {
				je.Vector = make([]string, len(e.Value.Vector()))
				for i, v := range e.Value.Vector() {
					je.Vector[i] = formatFloat(v)
				}
			} else {
				je.Scalar = formatFloat(e.Value.Scalar())
			}
			jr.Entries = append(jr.Entries, je)
		}
		for _, f := range r.Result.Failures {
			jr.Failures = append(jr.Failures, jsonFailure{f.Feature, f.Group, f.Kind, f.Err.Error()})
		}
	}
	return json.Marshal(jr)
}

func (jsonRecordEncodeDecoder) Decode(data []byte) (*Record, error) {
	jr := &jsonRecord{}
	err := json.Unmarshal(data, jr)
	if err != nil {
		return nil, err
	}
	result := &Result{RandomState: jr.RandomState}
	for _, je := range jr.Entries {
		var v mf.Value
		if je.IsVec {
			values := make([]float64, len(je.Vector))
			for i, s := range je.Vector {
				values[i], err = strconv.ParseFloat(s, 64)
				if err != nil {
					return nil, err
				}
			}
			v = mf.Vector(values)
		} else {
			f, err := strconv.ParseFloat(je.Scalar, 64)
			if err != nil {
				return nil, err
			}
			v = mf.Scalar(f)
		}
		result.Entries = append(result.Entries, Entry{je.Name, je.Group, v})
	}
	for _, jf := range jr.Failures {
		result.Failures = append(result.Failures, Failure{jf.Feature, jf.Group, jf.Kind, decodedError(jf.Err)})
	}
	return &Record{ID: jr.ID, Name: jr.Name, Result: result}, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
