/*
Package config loads the structrs settings file.

	            +-------------+
	            |   Config    |
	            | (TypeMap)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Reads .structrs.yaml (or .hcl / .json) from the working directory
- Overrides the type widths and attributes used by both engines
- Rejects unknown keys so a typo never silently changes output

🔄 Flow:
1. Reads configuration from file
2. Picks a parser by file extension
3. Fills defaults and validates
4. Hands a rules.TypeMap to the engines

🔍 Example:

	cfg, err := config.LoadOrDefault(ctx, ".structrs.yaml", false)
	if err != nil {
		return err
	}
	pipeline, err := rules.Default(cfg.TypeMap())

HCL files may refer to the stock mapping through the `defaults` object:

	types {
	  short = defaults.int
	}
*/
package config
