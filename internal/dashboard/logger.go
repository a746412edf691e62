package dashboard

import "skin_market/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault
