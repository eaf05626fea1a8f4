package deepcopy

import (
	"testing"
	"unsafe"
)

// 元素不可变的数组整块复制
func TestArrayOfImmutable(t *testing.T) {
	a := [3][4]int{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}}
	c, err := DeepCopy(a)
	if err != nil {
		t.Fatal(err)
	}
	if c != a {
		t.Fatal()
	}
}

// 元素可变的多维数组逐单元拷贝，共享指针保持共享
func TestArrayOfMutable(t *testing.T) {
	shared := &poco{I: 1}
	var a [2][2][2]*poco
	a[0][0][0] = shared
	a[1][1][1] = shared
	a[0][1][0] = &poco{I: 2}
	c, err := DeepCopy(a)
	if err != nil {
		t.Fatal(err)
	}
	if c[0][0][0] == shared {
		t.Fatal()
	}
	if c[0][0][0] != c[1][1][1] {
		t.Fatal()
	}
	if c[0][1][0].I != 2 {
		t.Fatal()
	}
	if c[1][0][0] != nil {
		t.Fatal()
	}
}

func TestSliceOfImmutableBlockCopy(t *testing.T) {
	s := []string{"a", "b", "c"}
	c, err := DeepCopy(s)
	if err != nil {
		t.Fatal(err)
	}
	if unsafe.SliceData(c) == unsafe.SliceData(s) {
		t.Fatal()
	}
	s[0] = "mutated"
	if c[0] != "a" || c[1] != "b" || c[2] != "c" {
		t.Fatal()
	}
	if cap(c) != len(c) {
		t.Fatal()
	}
}

// 空切片观察上不可变，原样返回
func TestEmptySliceAliased(t *testing.T) {
	s := make([]int, 0, 8)
	c, err := DeepCopy(s)
	if err != nil {
		t.Fatal(err)
	}
	if unsafe.SliceData(c) != unsafe.SliceData(s) {
		t.Fatal()
	}
}

// 同一切片出现在两个字段，拷贝后共享同一底层数组
func TestSliceIdentity(t *testing.T) {
	type holder struct {
		A []int
		B []int
	}
	s := []int{1, 2, 3}
	h := holder{A: s, B: s}
	c, err := DeepCopy(h)
	if err != nil {
		t.Fatal(err)
	}
	if unsafe.SliceData(c.A) == unsafe.SliceData(s) {
		t.Fatal()
	}
	if unsafe.SliceData(c.A) != unsafe.SliceData(c.B) {
		t.Fatal()
	}
}

// 切片间接引用自身
func TestSliceSelfReference(t *testing.T) {
	s := make([]any, 2)
	s[0] = 1
	s[1] = s
	c, err := DeepCopy(s)
	if err != nil {
		t.Fatal(err)
	}
	inner, ok := c[1].([]any)
	if !ok {
		t.Fatal()
	}
	if unsafe.SliceData(inner) != unsafe.SliceData(c) {
		t.Fatal()
	}
	if c[0] != 1 {
		t.Fatal()
	}
}

func TestNestedSlices(t *testing.T) {
	rows := [][]int{{1, 2}, {3, 4, 5}, nil, {}}
	c, err := DeepCopy(rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(c) != 4 {
		t.Fatal()
	}
	if unsafe.SliceData(c[0]) == unsafe.SliceData(rows[0]) {
		t.Fatal()
	}
	if len(c[1]) != 3 || c[1][2] != 5 {
		t.Fatal()
	}
	if c[2] != nil {
		t.Fatal()
	}
	if c[3] == nil || len(c[3]) != 0 {
		t.Fatal()
	}
}
