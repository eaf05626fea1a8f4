// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deepcopy

import (
	"sync"
	"unsafe"
)

// refKey 按指针身份比较，不做结构比较。
// 同一地址可能同时是外层结构体和首字段，类型参与区分；
// 同一底层数组的不同长度切片视图是不同对象，长度参与区分
type refKey struct {
	addr unsafe.Pointer
	typ  unsafe.Pointer
	len  int
}

// Context 在一次顶层拷贝内维护 original → copy 的身份映射：
// 原图中同一对象只产生一份拷贝，共享与环被原样重建。
// 非并发安全，同一时刻只能被一个 goroutine 使用
type Context struct {
	refs map[refKey]unsafe.Pointer
}

// NewContext 创建空的拷贝上下文，跨多次 DeepCopyWithContext 复用
// 可以让多次拷贝共享引用拓扑
func NewContext() *Context {
	return &Context{refs: make(map[refKey]unsafe.Pointer, 16)}
}

// Reset 清空身份映射
func (c *Context) Reset() {
	clear(c.refs)
}

// Len 返回已登记的对象数
func (c *Context) Len() int {
	return len(c.refs)
}

func (c *Context) lookup(addr, typ unsafe.Pointer, length int) (unsafe.Pointer, bool) {
	copied, ok := c.refs[refKey{addr: addr, typ: typ, len: length}]
	return copied, ok
}

// 一经登记，本次顶层拷贝内映射保持稳定
func (c *Context) record(addr, typ unsafe.Pointer, length int, copied unsafe.Pointer) {
	c.refs[refKey{addr: addr, typ: typ, len: length}] = copied
}

// 复用 Context，减少 GC 压力
var contextPool = sync.Pool{
	New: func() any {
		return NewContext()
	},
}

func acquireContext() *Context {
	return contextPool.Get().(*Context)
}

func releaseContext(c *Context) {
	// 防止池子长期持有超大 map
	if len(c.refs) >= 1<<13 {
		return
	}
	c.Reset()
	contextPool.Put(c)
}
