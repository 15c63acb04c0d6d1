// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Updater is the interface that custom components built using reflection must implement.
// See MakePart.
//
type Updater interface {
	Update(*Circuit)
}

// MakePart wraps an Updater into a custom component.
// Input/output pins are identified by field tags.
//
// The field tag must be `hw:"in"` or `hw:"out"` to identify input and output
// pins. By default, the pin name is the field name in lowercase. A specific
// pin name can be forced by adding it in the tag: `hw:"in,pin_name"`.
//
// Pin fields must be of type int and will receive the pin number allocated
// for the pin. Buses must be arrays of int. Untagged fields are private state,
// zeroed for each mounted instance.
//
func MakePart(t Updater) *PartSpec {
	typ := reflect.TypeOf(t)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if k := typ.Kind(); k != reflect.Struct {
		panic(errors.Errorf("unsupported type %q for %q", k, typ.Name()))
	}

	sp := &PartSpec{
		Name: typ.Name(),
	}

	n := typ.NumField()
	for i := 0; i < n; i++ {
		f := typ.Field(i)
		pin, isInput, ok := pinTag(typ, f)
		if !ok {
			continue
		}

		ft := f.Type
		var names []string
		if k := ft.Kind(); k == reflect.Array && ft.Elem().Kind() == reflect.Int {
			// bus
			for i := 0; i < ft.Len(); i++ {
				names = append(names, BusPinName(pin, i))
			}
		} else if k == reflect.Int {
			names = []string{pin}
		} else {
			panic(errors.Errorf("unsupported type %q for field %q in %q", k, f.Name, typ.Name()))
		}
		if isInput {
			sp.Inputs = append(sp.Inputs, names...)
		} else {
			sp.Outputs = append(sp.Outputs, names...)
		}
	}
	sp.Mount = mountPart(typ)
	return sp
}

func pinTag(typ reflect.Type, f reflect.StructField) (pin string, isInput bool, ok bool) {
	tag, ok := f.Tag.Lookup("hw")
	if !ok {
		return "", false, false
	}
	pin = strings.ToLower(f.Name)
	tv := strings.Split(tag, ",")
	if len(tv) > 1 && tv[1] != "" {
		pin = tv[1]
	}
	switch tv[0] {
	case "in":
		isInput = true
	case "out":
	default:
		panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, f.Name, typ.Name()))
	}
	return pin, isInput, true
}

func mountPart(typ reflect.Type) MountFn {
	return func(s *Socket) []Component {
		v := reflect.New(typ)
		e := v.Elem()
		n := typ.NumField()
		for i := 0; i < n; i++ {
			f := typ.Field(i)
			pin, _, ok := pinTag(typ, f)
			if !ok {
				continue
			}
			fv := e.Field(i)
			if f.Type.Kind() == reflect.Array {
				for i := 0; i < fv.Len(); i++ {
					fv.Index(i).SetInt(int64(s.Pin(pin + "[" + strconv.Itoa(i) + "]")))
				}
			} else {
				fv.SetInt(int64(s.Pin(pin)))
			}
		}

		comp := v.Interface().(Updater)
		return []Component{comp.Update}
	}
}
