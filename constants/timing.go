package constants

// timing operation names
const (
	TimingDiscover = "discover"
	TimingDownload = "download"
	TimingDecode   = "decode"
	TimingWrite    = "write"
)
