// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deepcopy

import (
	"reflect"
	"unsafe"
)

func typeFor[T any]() reflect.Type {
	var v T
	if t := reflect.TypeOf(v); t != nil {
		return t // optimize for T being a non-interface kind
	}
	return reflect.TypeOf((*T)(nil)).Elem() // only for an interface kind
}

func typePtr(t reflect.Type) unsafe.Pointer {
	return noEscape((*eface)(unsafe.Pointer(&t)).ptr)
}

type iface interface {
	M()
}

type eface struct {
	typ unsafe.Pointer
	ptr unsafe.Pointer
}

func packEface(typ reflect.Type, ptr unsafe.Pointer) any {
	return *(*any)(unsafe.Pointer(&eface{
		typ: typePtr(typ),
		ptr: ptr,
	}))
}

//go:nosplit
func noEscape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}

var alwaysFalse bool
var escapeSink any

func escape[T any](x T) T {
	if alwaysFalse {
		escapeSink = x
	}
	return x
}

// chan、map、func 其实就是一个指针
func isPtrKind(k reflect.Kind) bool {
	switch k {
	case reflect.Chan, reflect.Map, reflect.Func, reflect.Pointer, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

func unpackEface(v any) (unpackedType reflect.Type, unpackedPtr unsafe.Pointer, isPtr bool) {
	unpackedPtr = (*eface)(unsafe.Pointer(&v)).ptr
	switch v.(type) {
	case bool:
		return boolType, unpackedPtr, false
	case int:
		return intType, unpackedPtr, false
	case int64:
		return int64Type, unpackedPtr, false
	case float64:
		return float64Type, unpackedPtr, false
	case string:
		return stringType, unpackedPtr, false
	default:
		break
	}
	unpackedType = reflect.TypeOf(v)
	// 指针类型对应的eface/iface里的ptr直接就是这个指针
	// 值类型对应的eface/iface里的ptr指向这个值的拷贝
	return unpackedType, unpackedPtr, isPtrKind(unpackedType.Kind())
}

func getValueAddr(v reflect.Value) unsafe.Pointer {
	if v.CanAddr() {
		return v.Addr().UnsafePointer()
	}
	copiedPtr := reflect.New(v.Type())
	copiedPtr.Elem().Set(v)
	return copiedPtr.UnsafePointer()
}

func offset(data unsafe.Pointer, idx int, elemSize uintptr) unsafe.Pointer {
	return unsafe.Add(data, uintptr(idx)*elemSize)
}

//go:linkname typedmemmove runtime.typedmemmove
func typedmemmove(typ, dst, src unsafe.Pointer)

//go:linkname typedslicecopy runtime.typedslicecopy
func typedslicecopy(typ, dstPtr unsafe.Pointer, dstLen int, srcPtr unsafe.Pointer, srcLen int) int

//go:linkname mallocgc runtime.mallocgc
func mallocgc(size uintptr, typ unsafe.Pointer, needzero bool) unsafe.Pointer

func newObject(typ reflect.Type) unsafe.Pointer {
	return mallocgc(typ.Size(), typePtr(typ), true)
}

//go:linkname newarray runtime.newarray
func newarray(typ unsafe.Pointer, n int) unsafe.Pointer

type slice struct {
	data unsafe.Pointer
	len  int
	cap  int
}

func makeSlice(elemType reflect.Type, len, cap int) slice {
	return slice{
		data: newarray(typePtr(elemType), cap),
		len:  len,
		cap:  cap,
	}
}
