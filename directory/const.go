package directory

const (
	pathServiceScale     = "self/service/scale"
	pathContainerState   = "self/service/containers/%d/state"
	pathContainerAddress = "self/service/containers/%d/primary_ip"
	pathContainerUUID    = "self/service/containers/%d/uuid"
	pathSelfAddress      = "self/container/primary_ip"
	pathSelfUUID         = "self/container/uuid"
)
