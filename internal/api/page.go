package api

import _ "embed"

//go:embed web/index.html
var indexPage []byte
