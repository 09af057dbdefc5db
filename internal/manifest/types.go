package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Port type keywords accepted in manifests. "any" disables payload checking
// for that port.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeList    = "list"
	TypeAny     = "any"
)

// ParsePortType validates a manifest port type keyword.
func ParsePortType(keyword string) error {
	switch keyword {
	case TypeString, TypeNumber, TypeBoolean, TypeObject, TypeList, TypeAny:
		return nil
	default:
		return fmt.Errorf("unknown port type %q", keyword)
	}
}

// CheckPayload verifies that a runtime payload conforms to the declared port
// type keyword. The payload's shape is judged through the cty type system,
// which keeps the rules consistent with how manifests describe port types
// rather than leaning on Go's reflect kinds directly.
func CheckPayload(keyword string, payload any) error {
	if keyword == TypeAny {
		return nil
	}
	if payload == nil {
		// Null payloads pass for every declared type; widgets routinely emit
		// bare signals on typed ports.
		return nil
	}

	// Payloads cross the wire as JSON, so their shape is judged the same
	// way: serialize, then let cty infer the type of the document.
	blob, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("payload is not serializable: %w", err)
	}
	implied, err := ctyjson.ImpliedType(blob)
	if err != nil {
		return fmt.Errorf("payload has no manifest-expressible type: %w", err)
	}

	ok := false
	switch keyword {
	case TypeString:
		ok = implied.Equals(cty.String)
	case TypeNumber:
		ok = implied.Equals(cty.Number)
	case TypeBoolean:
		ok = implied.Equals(cty.Bool)
	case TypeObject:
		ok = implied.IsObjectType() || implied.IsMapType()
	case TypeList:
		ok = implied.IsListType() || implied.IsTupleType() || implied.IsSetType()
	default:
		return fmt.Errorf("unknown port type %q", keyword)
	}

	if !ok {
		return fmt.Errorf("payload type %s does not conform to declared port type %q",
			implied.FriendlyName(), keyword)
	}
	return nil
}
