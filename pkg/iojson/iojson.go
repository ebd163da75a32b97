// Package iojson reads command input and writes JSON output for commands
// that are driven by editors and scripts.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// marshalFailure renders a marshal error as a JSON object. Strings go through
// json.Marshal so they are escaped.
func marshalFailure(err error) string {
	msg, _ := json.Marshal("cannot encode output")
	cause, _ := json.Marshal(err.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msg, cause)
}

// WriteWith writes obj to w as indented JSON. When obj cannot be encoded the
// failure is written to ew instead.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		_, err = fmt.Fprintln(ew, marshalFailure(err))
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLine writes obj to w as a single line of JSON.
func WriteLine(w io.Writer, obj any) error {
	return json.NewEncoder(w).Encode(obj)
}
