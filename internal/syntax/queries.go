package syntax

var highlightQueries = map[string]string{
	"go":   goQuery,
	"bash": bashQuery,
	"yaml": yamlQuery,
	"toml": tomlQuery,
}

const goQuery = `
(comment) @comment
(interpreted_string_literal) @string
(raw_string_literal) @string
(rune_literal) @string
(int_literal) @number
(float_literal) @number
(nil) @constant
(true) @constant
(false) @constant
[
  "break" "case" "chan" "const" "continue" "default" "defer" "else"
  "for" "func" "go" "goto" "if" "import" "interface" "map" "package"
  "range" "return" "select" "struct" "switch" "type" "var"
] @keyword
(type_identifier) @type
(function_declaration name: (identifier) @function)
(method_declaration name: (field_identifier) @function)
(call_expression function: (identifier) @function)
`

const bashQuery = `
(comment) @comment
(string) @string
(raw_string) @string
(variable_name) @variable
(command_name) @function
[
  "if" "then" "else" "elif" "fi" "for" "while" "do" "done" "case" "esac"
  "in" "function"
] @keyword
`

const yamlQuery = `
(comment) @comment
(string_scalar) @string
(double_quote_scalar) @string
(single_quote_scalar) @string
(integer_scalar) @number
(float_scalar) @number
(boolean_scalar) @constant
(null_scalar) @constant
(block_mapping_pair key: (_) @field)
`

const tomlQuery = `
(comment) @comment
(string) @string
(integer) @number
(float) @number
(boolean) @constant
(bare_key) @field
(table (bare_key) @type)
`
