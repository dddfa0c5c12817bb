package probe

const (
	tokenMaster = "master"
	tokenSlave  = "slave"

	replyOK   = "OK"
	replyPong = "PONG"

	cmdAuth     = "AUTH"
	cmdPing     = "PING"
	cmdRole     = "ROLE"
	cmdSentinel = "SENTINEL"

	sentinelMasterAddr = "get-master-addr-by-name"
)
