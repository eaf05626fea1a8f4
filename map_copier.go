// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deepcopy

import (
	"reflect"
	"unsafe"
)

// map 边界走 reflect 迭代，不挂接 runtime 的 map 内部结构
func getMapCopier(s *Scope, typ reflect.Type, building map[unsafe.Pointer]bool) copyFunc {
	keyType := typ.Key()
	elemType := typ.Elem()
	var keyCopier, elemCopier copyFunc
	if s.classify(keyType) == policyMutable {
		keyCopier = getElemCopier(s, keyType, building)
	}
	if s.classify(elemType) == policyMutable {
		elemCopier = getElemCopier(s, elemType, building)
	}
	mapTypePtr := typePtr(typ)
	return func(ctx *Context, fromAddr, toAddr unsafe.Pointer) error {
		m := *(*unsafe.Pointer)(fromAddr)
		if m == nil {
			*(*unsafe.Pointer)(toAddr) = nil
			return nil
		}
		if copied, ok := ctx.lookup(m, mapTypePtr, 0); ok {
			*(*unsafe.Pointer)(toAddr) = copied
			return nil
		}
		from := reflect.NewAt(typ, fromAddr).Elem()
		to := reflect.MakeMapWithSize(typ, from.Len())
		*(*unsafe.Pointer)(toAddr) = to.UnsafePointer()
		// 先登记再递归，value 里间接引用回本 map 时由查表短路
		ctx.record(m, mapTypePtr, 0, to.UnsafePointer())
		// 缓冲区跨条目复用，SetMapIndex 存入的是值拷贝
		var keyBuffer, elemBuffer reflect.Value
		if keyCopier != nil {
			keyBuffer = reflect.New(keyType)
		}
		if elemCopier != nil {
			elemBuffer = reflect.New(elemType)
		}
		iter := from.MapRange()
		for iter.Next() {
			key, elem := iter.Key(), iter.Value()
			if keyCopier != nil {
				if err := keyCopier(ctx, getValueAddr(key), keyBuffer.UnsafePointer()); err != nil {
					return err
				}
				key = keyBuffer.Elem()
			}
			if elemCopier != nil {
				if err := elemCopier(ctx, getValueAddr(elem), elemBuffer.UnsafePointer()); err != nil {
					return err
				}
				elem = elemBuffer.Elem()
			}
			to.SetMapIndex(key, elem)
		}
		return nil
	}
}
