// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deepcopy

import (
	"reflect"
	"sync"
	"unsafe"
)

const cacheSize = 8

// 每次拆箱后都需按运行时类型查 copier，略微有点慢，加一层 cache
type cache struct {
	mu     sync.RWMutex
	keys   [cacheSize]unsafe.Pointer
	values [cacheSize]copyFunc
	n      int
}

func (c *cache) load(key unsafe.Pointer) (copyFunc, bool) {
	if !c.mu.TryRLock() {
		return nil, false
	}
	defer c.mu.RUnlock()
	n := min(cacheSize, c.n)
	for i := 0; i < n; i++ {
		if c.keys[i] == key {
			return c.values[i], true
		}
	}
	return nil, false
}

func (c *cache) store(key unsafe.Pointer, value copyFunc) {
	if !c.mu.TryLock() {
		return
	}
	defer c.mu.Unlock()
	n := min(cacheSize, c.n)
	for i := 0; i < n; i++ {
		if c.keys[i] == key {
			c.values[i] = value
			return
		}
	}
	i := c.n % cacheSize
	c.keys[i] = key
	c.values[i] = value
	c.n++
	if c.n > 2*cacheSize {
		c.n -= cacheSize
	}
}

// 接口按运行时类型分发：静态声明为基类型、实际存放派生布局的值，
// 也会按实际布局拷贝
func getInterfaceCopier(s *Scope, typ reflect.Type) copyFunc {
	isEface := typ.NumMethod() == 0
	selfTypePtr := typePtr(typ)
	zeroPtr := newObject(typ)
	var c cache
	return func(ctx *Context, fromAddr, toAddr unsafe.Pointer) error {
		// 类型字为空即 nil 接口
		if *(*unsafe.Pointer)(fromAddr) == nil {
			typedmemmove(selfTypePtr, toAddr, zeroPtr)
			return nil
		}
		var from any
		if isEface {
			from = *(*any)(fromAddr)
		} else {
			from = *(*iface)(fromAddr)
		}
		elemType, elemAddr, isPtr := unpackEface(from)
		if s.classify(elemType) != policyMutable {
			// 动态类型不可变（含 reflect.Type 元数据），整体别名
			typedmemmove(selfTypePtr, toAddr, fromAddr)
			return nil
		}
		elemTypePtr := typePtr(elemType)
		copier, ok := c.load(elemTypePtr)
		if !ok {
			copier = getCopier(s, elemType)
			c.store(elemTypePtr, copier)
		}
		if copier == nil {
			return unsupportedTypeErr(elemType)
		}
		if isPtr {
			// 指针语义的动态值，eface 的 ptr 即指针本身，需再取一次地址；
			// 身份映射由对应 copier 自己维护
			var copied unsafe.Pointer
			if err := copier(ctx, noEscape(unsafe.Pointer(&elemAddr)), noEscape(unsafe.Pointer(&copied))); err != nil {
				return err
			}
			packInterface(typ, isEface, toAddr, elemType, copied, true)
			return nil
		}
		// 装箱的非指针值：装箱块有自己的身份，共享的装箱块只拷贝一次
		if copied, ok := ctx.lookup(elemAddr, elemTypePtr, 0); ok {
			packInterface(typ, isEface, toAddr, elemType, copied, false)
			return nil
		}
		copied := newObject(elemType)
		ctx.record(elemAddr, elemTypePtr, 0, copied)
		if err := copier(ctx, elemAddr, copied); err != nil {
			return err
		}
		packInterface(typ, isEface, toAddr, elemType, copied, false)
		return nil
	}
}

func packInterface(typ reflect.Type, isEface bool, toAddr unsafe.Pointer, elemType reflect.Type, dataPtr unsafe.Pointer, isPtr bool) {
	if isEface {
		// 指针语义时 dataPtr 即指针本身，直接作为 eface 的数据字
		*(*any)(toAddr) = packEface(elemType, dataPtr)
		return
	}
	if isPtr {
		elemPtr := dataPtr
		reflect.NewAt(typ, toAddr).Elem().Set(reflect.NewAt(elemType, unsafe.Pointer(&elemPtr)).Elem())
		return
	}
	reflect.NewAt(typ, toAddr).Elem().Set(reflect.NewAt(elemType, dataPtr).Elem())
}
