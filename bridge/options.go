package bridge

// Options are the command line flags of the bridge binary. A config file
// loaded through ConfigURL overrides the flag values it sets.
type Options struct {
	URL       string  `short:"u" long:"url" description:"mcp endpoint url" default:"http://localhost:4040/mcp"`
	ConfigURL string  `short:"c" long:"config" description:"json config file url"`
	Token     string  `short:"t" long:"token" description:"bearer token"`
	LogFile   string  `short:"l" long:"log" description:"diagnostics log file" default:"/tmp/mcp-relay.log"`
	Timeout   int     `long:"timeout" description:"per call timeout in seconds" default:"60"`
	Retries   int     `long:"retries" description:"max retries per call" default:"3"`
	BaseDelay float64 `long:"base-delay" description:"initial backoff in seconds" default:"1"`
	MaxDelay  float64 `long:"max-delay" description:"backoff ceiling in seconds" default:"60"`
	Pooled    bool    `long:"pooled" description:"reuse http connections across calls"`
	Verbose   bool    `short:"v" long:"verbose" description:"debug logging"`
}
