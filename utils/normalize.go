package utils

import (
	"reflect"
	"strings"
)

// NilEmptyStrings walks a pointer-to-struct and nils out *string fields that
// are empty or whitespace. Providers in the KGIS family use "" to mean
// "absent"; downstream JSON should omit those fields entirely.
func NilEmptyStrings(dto any) {
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr {
		return
	}
	s := v.Elem()
	if s.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if f.Kind() != reflect.Ptr || f.IsNil() || !f.CanSet() {
			continue
		}
		ef := f.Elem()
		if ef.Kind() == reflect.String && strings.TrimSpace(ef.String()) == "" {
			f.Set(reflect.Zero(f.Type()))
		}
	}
}
