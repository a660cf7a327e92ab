package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
)

var errTrailingData = errors.New("unexpected data after top-level value")

func decodeJSON(data []byte, strict bool) (any, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data),
		jsontext.AllowDuplicateNames(!strict),
		jsontext.AllowInvalidUTF8(false),
	)

	value, err := readValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, errTrailingData
		}
		return nil, err
	}
	return value, nil
}

func readValue(dec *jsontext.Decoder) (any, error) {
	switch dec.PeekKind() {
	case '0':
		// Numbers stay textual so large integers and decimals keep their precision.
		raw, err := dec.ReadValue()
		if err != nil {
			return nil, err
		}
		return json.Number(string(raw)), nil
	case '{':
		return readObject(dec)
	case '[':
		return readArray(dec)
	}

	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}
	switch tok.Kind() {
	case 'n':
		return nil, nil
	case 't', 'f':
		return tok.Bool(), nil
	case '"':
		return tok.String(), nil
	default:
		return nil, fmt.Errorf("unexpected token %s", tok.Kind())
	}
}

func readObject(dec *jsontext.Decoder) (any, error) {
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}
	obj := make(map[string]any)
	for dec.PeekKind() != '}' {
		name, err := dec.ReadToken()
		if err != nil {
			return nil, err
		}
		value, err := readValue(dec)
		if err != nil {
			return nil, err
		}
		obj[name.String()] = value
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}
	return obj, nil
}

func readArray(dec *jsontext.Decoder) (any, error) {
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}
	arr := make([]any, 0)
	for dec.PeekKind() != ']' {
		value, err := readValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}
	return arr, nil
}
