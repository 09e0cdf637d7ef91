package model

import (
	"encoding/json"
	"fmt"
)

type OutcomeTag string

const (
	TagOk       OutcomeTag = "ok"
	TagErr      OutcomeTag = "err"
	TagTimeout  OutcomeTag = "timeout"
	TagInternal OutcomeTag = "internal"
)

type CompileRequest struct {
	ElmCode string `json:"elmCode"`
}

// Outcome is the result of a single compilation. Code is set for TagOk only,
// Data for every other tag.
type Outcome struct {
	Tag  OutcomeTag
	Code string
	Data string
}

func Ok(code string) Outcome         { return Outcome{Tag: TagOk, Code: code} }
func Err(diagnostics string) Outcome { return Outcome{Tag: TagErr, Data: diagnostics} }
func Timeout(msg string) Outcome     { return Outcome{Tag: TagTimeout, Data: msg} }
func Internal(msg string) Outcome    { return Outcome{Tag: TagInternal, Data: msg} }

func (o Outcome) IsOk() bool { return o.Tag == TagOk }

type okWire struct {
	Tag  OutcomeTag `json:"tag"`
	Code string     `json:"code"`
}

type errWire struct {
	Tag  OutcomeTag `json:"tag"`
	Data string     `json:"data"`
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	switch o.Tag {
	case TagOk:
		return json.Marshal(okWire{Tag: o.Tag, Code: o.Code})
	case TagErr, TagTimeout, TagInternal:
		return json.Marshal(errWire{Tag: o.Tag, Data: o.Data})
	default:
		return nil, fmt.Errorf("unknown outcome tag: %q", o.Tag)
	}
}

func (o *Outcome) UnmarshalJSON(b []byte) error {
	var raw struct {
		Tag  OutcomeTag `json:"tag"`
		Code string     `json:"code"`
		Data string     `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch raw.Tag {
	case TagOk:
		*o = Ok(raw.Code)
	case TagErr, TagTimeout, TagInternal:
		*o = Outcome{Tag: raw.Tag, Data: raw.Data}
	default:
		return fmt.Errorf("unknown outcome tag: %q", raw.Tag)
	}
	return nil
}

type CompileResponse struct {
	ElmCode        string  `json:"elmCode"`
	CompilerResult Outcome `json:"compilerResult"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
