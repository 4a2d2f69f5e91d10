package container_test

import (
	"fmt"
	"slices"

	"github.com/g-wiedemair/fears/container"
	"github.com/g-wiedemair/fears/mem"
)

// Example shows a Vector switching from inline to allocator storage
func Example() {
	a, err := mem.New(mem.DefaultConfig())
	if err != nil {
		panic(err)
	}
	defer a.Close()

	v := container.NewVector[int](a)
	for i := range 4 {
		v.Append(i)
	}
	fmt.Println(v.Slice(), v.IsInline(), a.BlocksInUse())

	v.Append(4)
	fmt.Println(v.Slice(), v.IsInline(), a.BlocksInUse())

	v.Release()
	fmt.Println(a.BlocksInUse())

	// Output:
	// [0 1 2 3] true 0
	// [0 1 2 3 4] false 1
	// 0
}

// ExampleHashMap counts words
func ExampleHashMap() {
	m := container.NewHashMap[string, int](nil)
	for _, w := range []string{"node", "edge", "node", "face", "node"} {
		*m.LookupOrAdd(w, 0)++
	}
	for _, k := range slices.Sorted(m.Keys()) {
		fmt.Println(k, m.LookupDefault(k, 0))
	}
	fmt.Println(m.Add("edge", 5), m.Len())

	// Output:
	// edge 1
	// face 1
	// node 3
	// false 3
}

// ExampleVectorMap keeps insertion order
func ExampleVectorMap() {
	vm := container.NewVectorMap[string, float64](nil)
	vm.Add("young", 210e9)
	vm.Add("poisson", 0.3)
	vm.Add("young", 70e9)

	for k, v := range vm.All() {
		fmt.Println(k, v)
	}

	// Output:
	// young 2.1e+11
	// poisson 0.3
}

func ExampleIndexRange() {
	r := container.IndexRangeFrom(2, 3)
	for i := range r.All() {
		fmt.Print(i, " ")
	}
	fmt.Println(r)

	// Output:
	// 2 3 4 [2, 5)
}
