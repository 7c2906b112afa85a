package floorplan

import (
	"errors"
	"testing"
)

func TestParseReply(t *testing.T) {
	reply, err := ParseReply(`{"furniture": []}`)

	if err != nil {
		t.Fatal(err)
	}

	if _, ok := reply["furniture"]; !ok {
		t.Error("furniture key missing")
	}
}

func TestParseReplyFenced(t *testing.T) {
	cases := []string{
		"```json\n{\"a\": 1}\n```",
		"```JSON\n{\"a\": 1}\n```",
		"```\n{\"a\": 1}\n```",
		"  ```json\n{\"a\": 1}\n``` ",
		"```json\n{\"a\": 1}",
	}

	for _, raw := range cases {
		reply, err := ParseReply(raw)

		if err != nil {
			t.Errorf("ParseReply(%q) failed: %v", raw, err)
			continue
		}

		if v, ok := reply["a"].(float64); !ok || v != 1 {
			t.Errorf("ParseReply(%q) = %v", raw, reply)
		}
	}
}

func TestParseReplyDoubleEncoded(t *testing.T) {
	reply, err := ParseReply(`"{\"a\": 1}"`)

	if err != nil {
		t.Fatal(err)
	}

	if v, ok := reply["a"].(float64); !ok || v != 1 {
		t.Errorf("reply = %v", reply)
	}
}

func TestParseReplyFailure(t *testing.T) {
	for _, raw := range []string{"not json at all", "", "[1, 2, 3]", `"just a string"`} {
		_, err := ParseReply(raw)

		if err == nil {
			t.Errorf("ParseReply(%q) succeeded", raw)
			continue
		}

		var parseErr *ParseError

		if !errors.As(err, &parseErr) {
			t.Errorf("ParseReply(%q) err = %T, want *ParseError", raw, err)
		}

		if parseErr != nil && parseErr.Unwrap() == nil {
			t.Errorf("ParseReply(%q) carries no cause", raw)
		}
	}
}
