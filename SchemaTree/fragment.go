package SchemaTree

import (
	"bytes"
	"encoding/json"
	"strings"
)

// fragment 一个Schema对象片段，keys保留声明顺序
// encoding/json的map不保序，这里用Decoder逐token读取
type fragment struct {
	keys   []string
	values map[string]json.RawMessage
}

func parseFragment(raw json.RawMessage) (*fragment, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &SchemaError{Path: "", Reason: "fragment is not a JSON object"}
	}
	f := &fragment{values: make(map[string]json.RawMessage)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, &SchemaError{Path: "", Reason: "object key is not a string"}
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, err
		}
		if _, dup := f.values[key]; !dup {
			f.keys = append(f.keys, key)
		}
		f.values[key] = val
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *fragment) get(key string) (json.RawMessage, bool) {
	raw, ok := f.values[key]
	return raw, ok
}

// str 取字符串值，缺失或非字符串返回空串
func (f *fragment) str(key string) string {
	raw, ok := f.values[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// strList 取字符串数组，用于required
func (f *fragment) strList(key string) []string {
	raw, ok := f.values[key]
	if !ok {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

// typeName type关键字，联合类型用|连接
func (f *fragment) typeName() string {
	raw, ok := f.values["type"]
	if !ok {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	var union []string
	if err := json.Unmarshal(raw, &union); err == nil {
		return strings.Join(union, "|")
	}
	return ""
}

// rawList 取原始JSON数组元素，用于allOf等组合关键字
func (f *fragment) rawList(key string) []json.RawMessage {
	raw, ok := f.values[key]
	if !ok {
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

type propEntry struct {
	name string
	raw  json.RawMessage
}

// orderedProps properties子对象的键值，保持声明顺序
func (f *fragment) orderedProps() ([]propEntry, error) {
	raw, ok := f.values["properties"]
	if !ok {
		return nil, nil
	}
	props, err := parseFragment(raw)
	if err != nil {
		return nil, err
	}
	entries := make([]propEntry, 0, len(props.keys))
	for _, key := range props.keys {
		entries = append(entries, propEntry{name: key, raw: props.values[key]})
	}
	return entries, nil
}
