// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deepcopy

import (
	"net/url"
	"reflect"
	"time"
	"unsafe"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// policy 描述一个类型的拷贝策略
type policy uint8

const (
	// 必须逐字段/逐元素深拷贝
	policyMutable policy = iota
	// 实例不可变，拷贝即别名
	policyImmutable
	// 按位复制即可，无需递归字段
	policyShallow
)

// classify 返回类型的拷贝策略。幂等，结果按类型缓存，支持并发读
func (s *Scope) classify(typ reflect.Type) policy {
	tp := typePtr(typ)
	s.policyMu.RLock()
	p, ok := s.policyMap[tp]
	s.policyMu.RUnlock()
	if ok {
		return p
	}
	// 并发时允许重复计算，结果是确定的
	p = classifyType(s, typ, nil)
	s.policyMu.Lock()
	s.policyMap[tp] = p
	s.policyMu.Unlock()
	return p
}

func classifyType(s *Scope, typ reflect.Type, visiting map[unsafe.Pointer]bool) policy {
	tp := typePtr(typ)
	if s.customSet[tp] {
		// 自定义 copier 的类型必须走深拷贝路径，字段遍历才能到达它
		return policyMutable
	}
	if s.immutableSet[tp] {
		return policyImmutable
	}
	if typ.Implements(immutablerType) {
		return policyImmutable
	}
	if typ.Kind() != reflect.Pointer && reflect.PointerTo(typ).Implements(immutablerType) {
		return policyImmutable
	}
	// 反射元数据进程内全局共享，约定不可变
	if typ.Implements(reflectTypeType) {
		return policyImmutable
	}
	switch typ.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		return policyImmutable
	case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Uintptr:
		// 拒绝复制这些句柄，按值别名
		return policyImmutable
	case reflect.Array:
		if classifyType(s, typ.Elem(), visiting) == policyMutable {
			return policyMutable
		}
		return policyShallow
	case reflect.Struct:
		if visiting[tp] {
			// 自引用值类型，强制深拷贝，避免无限递归
			return policyMutable
		}
		if visiting == nil {
			visiting = make(map[unsafe.Pointer]bool)
		}
		visiting[tp] = true
		defer delete(visiting, tp)
		n := typ.NumField()
		for i := 0; i < n; i++ {
			fieldType := typ.Field(i).Type
			if !isCopyableKind(fieldType.Kind()) {
				continue
			}
			if classifyType(s, fieldType, visiting) == policyMutable {
				return policyMutable
			}
		}
		return policyShallow
	default:
		// Slice、Map、Pointer、Interface：策略层无法证明别名安全
		return policyMutable
	}
}

// chan/func/unsafe.Pointer/uintptr 字段不参与递归复制，保留原值
func isCopyableKind(k reflect.Kind) bool {
	switch k {
	case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Uintptr:
		return false
	default:
		return true
	}
}

var defaultOptions = []ScopeOption{
	WithImmutable[time.Time](),
	WithImmutable[time.Duration](),
	WithImmutable[*time.Location](),
	WithImmutable[uuid.UUID](),
	WithImmutable[decimal.Decimal](),
	WithImmutable[semver.Version](),
	WithImmutable[url.URL](),
	WithImmutable[reflect.Value](),
}
