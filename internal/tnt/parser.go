package tnt

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type noop struct{}

const (
	TAG_NAME    = "tnt"
	TAG_REQUIRE = "require"
)

var (
	ErrNotEnoughFields    = errors.New("not enough fields")
	ErrNotEnoughVariables = errors.New("not enough destination variables")
)

func ConvertReplyToSlice(data interface{}) []string {
	retval := make([]string, 0)
	if val, ok := data.([]string); ok {
		retval = append(retval, val...)
		return retval
	}
	if val, ok := data.([]interface{}); ok {
		for _, v := range val {
			if vstr, ok := v.(string); ok {
				retval = append(retval, vstr)
			}
		}
	}
	return retval
}

/** SerializeReply convert map[inteface] to map[string]*/
func SerializeReply(v interface{}) (interface{}, error) {
	what := reflect.TypeOf(v)
	if what == nil {
		return nil, nil
	}
	val := reflect.ValueOf(v)
	switch what.Kind() {
	case reflect.Array, reflect.Slice:
		if what.Elem().Kind() == reflect.Uint8 {
			return v, nil
		}
		sarr := val.Len()
		array := make([]interface{}, 0, sarr)
		for i := 0; i < sarr; i++ {
			tmp, err := SerializeReply(val.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			array = append(array, tmp)
		}
		return array, nil
	case reflect.Struct, reflect.Chan:
		return nil, errors.New("dont support type")
	case reflect.Map:
		rmap := make(map[string]interface{})

		for _, k := range val.MapKeys() {
			tmp_key, err := SerializeReply(k.Interface())
			if err != nil {
				return nil, err
			}
			tmp_val, err := SerializeReply(val.MapIndex(k).Interface())
			if err != nil {
				return nil, err
			}

			rmap[fmt.Sprintf("%v", tmp_key)] = tmp_val
		}

		return rmap, nil
	}
	return v, nil
}

// StructToTntArray - converts a *struct to a tuple, the reverse of ScanFieldsToStruct.
// Untagged fields are skipped, tagged indices must be contiguous from 0.
func StructToTntArray(src any) (fields []any, err error) {
	v := reflect.ValueOf(src)
	if v.Kind() != reflect.Ptr {
		err = errors.New("src sounld be a *struct")
		return
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		err = errors.New("src sounld be a *struct")
		return
	}

	t := v.Type()

	maxIndex := -1
	tagged := 0

	fields = make([]any, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		index, _, ok := parseTag(t.Field(i))
		if !ok {
			continue
		}
		if index >= t.NumField() {
			err = errors.New("src count fields < index")
			return
		}
		if index > maxIndex {
			maxIndex = index
		}
		tagged++
		fields[index] = plainValue(v.Field(i))
	}

	if tagged != maxIndex+1 {
		err = errors.New("src tagged fields not contiguous")
	}
	fields = fields[:maxIndex+1]
	return
}

// plainValue strips named types so the msgpack encoder sees base kinds.
func plainValue(v reflect.Value) any {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return v.Interface()
}

func parseTag(field reflect.StructField) (index int, require bool, ok bool) {
	tag := field.Tag.Get(TAG_NAME)
	if tag == "" {
		return
	}
	tagParts := strings.Split(tag, ",")
	index, err := strconv.Atoi(tagParts[0])
	if err != nil {
		return
	}
	for _, p := range tagParts[1:] {
		if p == TAG_REQUIRE {
			require = true
		}
	}
	ok = true
	return
}

// ScanFieldsToStruct - scans tnt data fields to structure use `tnt:"N"` to specify
// the array element index to map. All given indices are optinal unless `require` keyword is given.
//
//	type A struct {
//		A0   string            `tnt:"0,require"`
//		A1   int64             `tnt:"1,require"`
//		A2   uint64            `tnt:"2"`
//		A3   map[string]any    `tnt:"3"`
//	}
func ScanFieldsToStruct(fields []interface{}, dst interface{}) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr {
		return errors.New("dst sounld be a *struct")
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return errors.New("dst sounld be a *struct")
	}
	t := v.Type()

	require := 0
	strFields := make([]*reflect.Value, len(fields))

	for i := 0; i < t.NumField(); i++ {
		index, req, ok := parseTag(t.Field(i))
		if !ok {
			continue
		}

		if req && require < index+1 {
			require = index + 1
		}

		val := v.Field(i)
		if len(strFields) <= index {
			strFields = append(strFields, make([]*reflect.Value, index-len(strFields)+1)...)
		}
		strFields[index] = &val
	}

	var dummy noop
	args := make([]interface{}, len(strFields))
	for i, f := range strFields {
		if f != nil {
			args[i] = f.Addr().Interface()
		} else {
			args[i] = dummy
		}
	}

	return ScanFields(fields, require, args...)
}

func ScanFieldsAnyToStruct(fields any, dst interface{}) error {
	f, ok := fields.([]any)
	if !ok {
		return errors.New("fields canbe array interface")
	}
	return ScanFieldsToStruct(f, dst)
}

// ScanFields - scan tnt fields array into dst variables. Require option spicifies
// number of obligatory fields. Function returns an `ErrNotEnoughFields` otherwise.
func ScanFields(fields []interface{}, require int, dst ...interface{}) error {
	if len(fields) < require {
		return ErrNotEnoughFields
	}
	if len(dst) < require {
		return ErrNotEnoughVariables
	}

	for i, f := range fields {
		if i+1 > len(dst) {
			return nil
		}

		switch d := dst[i].(type) {
		case *string:
			x, ok := StringOrIntToString(f)
			if !ok {
				return fmt.Errorf("field #%d `%v`", i, fields)
			}
			*d = x
		case *int:
			x, ok := IntOrStringToInt(f)
			if !ok {
				return fmt.Errorf("field #%d `%#v` convert to int", i, fields[i])
			}
			*d = int(x)
		case *int64:
			x, ok := IntOrStringToInt(f)
			if !ok {
				return fmt.Errorf("field #%d `%#v` convert to int64", i, fields[i])
			}
			*d = x
		case *uint64:
			x, ok := IntOrStringToUint(f)
			if !ok {
				return fmt.Errorf("field #%d `%#v` convert to uint64", i, fields[i])
			}
			*d = x
		case *map[string]string:
			x, ok := MapToMapStrings(f)
			if !ok {
				return fmt.Errorf("field #%d `%#v` convert to map[string]string", i, fields[i])
			}
			*d = x
		case *map[string]any:
			if f == nil {
				continue
			}
			x, err := SerializeReply(f)
			if err != nil {
				return fmt.Errorf("field #%d `%#v` convert to map[string]any: %w", i, fields[i], err)
			}
			m, ok := x.(map[string]any)
			if !ok {
				return fmt.Errorf("field #%d `%#v` is not a map", i, fields[i])
			}
			*d = m
		case *[]string:
			*d = ConvertReplyToSlice(f)
		case *[]interface{}:
			x, ok := f.([]interface{})
			if !ok {
				return fmt.Errorf("field #%d `%v`", i, fields)
			}
			*d = x
		case noop:
			// do nothing
		default:
			// named string types, e.g. enums
			rv := reflect.ValueOf(d)
			if rv.Kind() == reflect.Ptr && rv.Elem().Kind() == reflect.String {
				x, ok := StringOrIntToString(f)
				if !ok {
					return fmt.Errorf("field #%d `%#v` convert to %s", i, fields[i], rv.Elem().Type())
				}
				rv.Elem().SetString(x)
				continue
			}
			return fmt.Errorf("unknown destination #%d type, %T", i, dst[i])
		}
	}

	return nil
}

func MapToMapStrings(field interface{}) (map[string]string, bool) {
	maps := make(map[string]string)
	switch mapsUni := field.(type) {
	case map[interface{}]interface{}:
		for k, v := range mapsUni {
			if v1, ok1 := StringOrIntToString(v); ok1 {
				k1, _ := k.(string)
				maps[k1] = v1
			}
		}
	case map[string]interface{}:
		for k, v := range mapsUni {
			if v1, ok1 := StringOrIntToString(v); ok1 {
				maps[k] = v1
			}
		}
	}
	return maps, true
}

func IntOrStringToInt(field interface{}) (int64, bool) {
	switch x := field.(type) {
	case int64:
		return x, true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	case string:
		i, _ := strconv.Atoi(x)
		return int64(i), true
	case float64:
		return int64(x), true
	}
	return 0, false
}

func IntOrStringToUint(field interface{}) (uint64, bool) {
	x, ok := IntOrStringToInt(field)
	if !ok || x < 0 {
		return 0, false
	}
	return uint64(x), true
}

func StringOrIntToString(field interface{}) (string, bool) {
	switch x := field.(type) {
	case string:
		return x, true
	case nil:
		return "", true
	case float64:
		return strconv.FormatUint(uint64(x), 10), true
	}
	if i, ok := IntOrStringToInt(field); ok {
		return strconv.FormatInt(i, 10), true
	}
	return "", false
}
