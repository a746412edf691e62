package refresh

import "skin_market/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault
