package snowflake

import (
	"errors"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node   *snowflake.Node
	nodeMu sync.RWMutex

	errInvalidMachineID    = errors.New("invalid snowflake machine id")
	errInvalidDataCenterID = errors.New("invalid snowflake datacenter id")
	errGeneratorUninitial  = errors.New("snowflake generator is not initialized")
)

// Init datacenterID 与 machineID 都取 0~31，拼成 10 位节点号
func Init(machineID, dataCenterID int64) error {
	if machineID < 0 || machineID > 31 {
		return errInvalidMachineID
	}
	if dataCenterID < 0 || dataCenterID > 31 {
		return errInvalidDataCenterID
	}

	n, err := snowflake.NewNode((dataCenterID << 5) | machineID)
	if err != nil {
		return err
	}

	nodeMu.Lock()
	node = n
	nodeMu.Unlock()
	return nil
}

func NextID() (int64, error) {
	nodeMu.RLock()
	n := node
	nodeMu.RUnlock()

	if n == nil {
		return 0, errGeneratorUninitial
	}
	return n.Generate().Int64(), nil
}

// NextString 十进制字符串形式，JSON 中避免 int64 精度丢失
func NextString() (string, error) {
	id, err := NextID()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}
