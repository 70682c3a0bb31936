package rules_test

import (
	"fmt"

	"github.com/walteh/structrs/pkg/rules"
)

func ExamplePipeline_Apply() {
	p := rules.DefaultPipeline()

	out := p.Apply("#pragma pack(2)\nstruct Point {\n    int x;\n    int y;\n};\n")
	fmt.Print(out)

	// Output:
	// #[repr(align(2))]
	// #[repr(C)]
	// #[derive(Debug)]
	// pub struct Point {
	//     pub x: i32,
	//     pub y: i32,
	// }
}

func ExampleDefault() {
	m := rules.DefaultTypeMap()
	m.Short = "i16"

	p, err := rules.Default(m)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println(p.Apply("short flag;"))

	// Output:
	// pub flag: i16,
}
