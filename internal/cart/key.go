package cart

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NoCustomization is how a line without customizations renders in its key string
const NoCustomization = "plain"

const keySeparator = "~"

// LineKey identifies a cart line: the menu item plus a canonical encoding of its
// customization set. Two additions with the same item and the same customizations,
// in any order, produce equal keys. Variant is empty for a line without customizations.
type LineKey struct {
	ItemID  string
	Variant string
}

// NewLineKey builds the key for itemID and customizations. Each sorted customization
// is length-prefixed, so no element can be mistaken for a boundary.
func NewLineKey(itemID string, customizations []string) LineKey {
	if len(customizations) == 0 {
		return LineKey{ItemID: itemID}
	}
	sorted := append([]string(nil), customizations...)
	sort.Strings(sorted)

	var b strings.Builder
	for _, c := range sorted {
		fmt.Fprintf(&b, "%d:%s", len(c), c)
	}
	return LineKey{ItemID: itemID, Variant: b.String()}
}

// Plain reports whether the line carries no customizations
func (k LineKey) Plain() bool {
	return k.Variant == ""
}

// String encodes the key for use in URLs
func (k LineKey) String() string {
	if k.Plain() {
		return k.ItemID + keySeparator + NoCustomization
	}
	return k.ItemID + keySeparator + base64.RawURLEncoding.EncodeToString([]byte(k.Variant))
}

// ParseLineKey decodes a key produced by LineKey.String
func ParseLineKey(raw string) (LineKey, error) {
	i := strings.LastIndex(raw, keySeparator)
	if i <= 0 || i == len(raw)-1 {
		return LineKey{}, fmt.Errorf("malformed line key %q", raw)
	}
	itemID, variant := raw[:i], raw[i+1:]
	if variant == NoCustomization {
		return LineKey{ItemID: itemID}, nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(variant)
	if err != nil {
		return LineKey{}, fmt.Errorf("malformed line key %q: %w", raw, err)
	}
	if _, err := splitVariant(string(decoded)); err != nil {
		return LineKey{}, fmt.Errorf("malformed line key %q: %w", raw, err)
	}
	return LineKey{ItemID: itemID, Variant: string(decoded)}, nil
}

// splitVariant reverses the length-prefixed encoding of NewLineKey
func splitVariant(variant string) ([]string, error) {
	if variant == "" {
		return nil, fmt.Errorf("empty variant")
	}
	var out []string
	for variant != "" {
		colon := strings.IndexByte(variant, ':')
		if colon <= 0 {
			return nil, fmt.Errorf("missing length prefix")
		}
		n, err := strconv.Atoi(variant[:colon])
		if err != nil || n < 0 || colon+1+n > len(variant) {
			return nil, fmt.Errorf("bad length prefix %q", variant[:colon])
		}
		out = append(out, variant[colon+1:colon+1+n])
		variant = variant[colon+1+n:]
	}
	return out, nil
}
