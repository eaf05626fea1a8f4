// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deepcopy

import (
	"reflect"
	"sort"
	"unsafe"
)

func getStructCopier(s *Scope, typ reflect.Type, building map[unsafe.Pointer]bool) copyFunc {
	n := typ.NumField()
	fields := make([]reflect.StructField, 0, n)
	for i := 0; i < n; i++ {
		field := typ.Field(i)
		if !isCopyableKind(field.Type.Kind()) {
			// 句柄字段不递归，整体浅拷贝时保留原值
			continue
		}
		if s.classify(field.Type) != policyMutable {
			// 不可变/浅拷贝字段由整体浅拷贝覆盖
			continue
		}
		fields = append(fields, field)
	}
	// 可变字段按字段名字典序处理，遍历顺序稳定
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Name < fields[j].Name
	})
	type fieldMeta struct {
		copier copyFunc
		offset uintptr
	}
	data := make([]fieldMeta, len(fields))
	for i, field := range fields {
		data[i] = fieldMeta{
			copier: getElemCopier(s, field.Type, building),
			offset: field.Offset,
		}
	}
	tp := typePtr(typ)
	if len(data) == 0 {
		return memCopier(typ)
	}
	return func(ctx *Context, fromAddr, toAddr unsafe.Pointer) error {
		// 先整体浅拷贝，再覆盖可变字段，未导出字段直接按偏移写穿
		typedmemmove(tp, toAddr, fromAddr)
		for i := range data {
			d := &data[i]
			if err := d.copier(ctx, unsafe.Add(fromAddr, d.offset), unsafe.Add(toAddr, d.offset)); err != nil {
				return err
			}
		}
		return nil
	}
}
