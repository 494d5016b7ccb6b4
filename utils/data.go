package utils

import (
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// OrderedMapToString formats the map as "[k1=v1 k2=v2]" in insertion order.
func OrderedMapToString(data *orderedmap.OrderedMap[string, any]) string {
	if data == nil {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	count := data.Len()
	for el := data.Front(); el != nil; el = el.Next() {
		sb.WriteString(fmt.Sprintf("%s=%v", el.Key, el.Value))
		count--
		if count > 0 {
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte(']')
	return sb.String()
}
