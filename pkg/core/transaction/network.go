package transaction

import (
	"fmt"

	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/core/catbuffer"
	"github.com/nspcc-dev/sirius-go/pkg/util"
)

var (
	networkConfigSchema = catbuffer.NewSchema(
		catbuffer.Scalar("apply_height_delta", 8),
		catbuffer.Scalar("network_config_size", 2),
		catbuffer.Scalar("supported_entity_versions_size", 2),
		catbuffer.Array("network_config", 1, catbuffer.CountOf("network_config_size")),
		catbuffer.Array("supported_entity_versions", 1, catbuffer.CountOf("supported_entity_versions_size")),
	)
	blockchainUpgradeSchema = catbuffer.NewSchema(
		catbuffer.Scalar("upgrade_period", 8),
		catbuffer.Scalar("new_blockchain_version", 8),
	)
)

// NetworkConfigTransaction changes the network configuration at a future
// height.
type NetworkConfigTransaction struct {
	AbstractTransaction
	ApplyHeightDelta        util.Uint64
	NetworkConfig           string
	SupportedEntityVersions string
}

// NewNetworkConfigTransaction creates a network configuration change.
func NewNetworkConfigTransaction(deadline Deadline, delta util.Uint64, config, entityVersions string, network netmode.Type) (*NetworkConfigTransaction, error) {
	if len(config) > 0xffff || len(entityVersions) > 0xffff {
		return nil, fmt.Errorf("network config is too big")
	}
	return &NetworkConfigTransaction{
		AbstractTransaction:     newAbstract(NetworkConfigType, deadline, network),
		ApplyHeightDelta:        delta,
		NetworkConfig:           config,
		SupportedEntityVersions: entityVersions,
	}, nil
}

// Size implements the Transaction interface.
func (tx *NetworkConfigTransaction) Size() int { return HeaderSize + tx.bodySize() }

func (tx *NetworkConfigTransaction) bodySize() int {
	return 8 + 2 + 2 + len(tx.NetworkConfig) + len(tx.SupportedEntityVersions)
}

func (tx *NetworkConfigTransaction) fill(t *catbuffer.Table) error {
	t.PutU64("apply_height_delta", uint64(tx.ApplyHeightDelta)).
		PutU16("network_config_size", uint16(len(tx.NetworkConfig))).
		PutU16("supported_entity_versions_size", uint16(len(tx.SupportedEntityVersions))).
		PutBytes("network_config", []byte(tx.NetworkConfig)).
		PutBytes("supported_entity_versions", []byte(tx.SupportedEntityVersions))
	return nil
}

func (tx *NetworkConfigTransaction) load(t *catbuffer.Table) error {
	delta, err := t.U64("apply_height_delta")
	if err != nil {
		return err
	}
	config, err := t.Bytes("network_config")
	if err != nil {
		return err
	}
	versions, err := t.Bytes("supported_entity_versions")
	if err != nil {
		return err
	}
	tx.ApplyHeightDelta = util.Uint64(delta)
	tx.NetworkConfig = string(config)
	tx.SupportedEntityVersions = string(versions)
	return nil
}

// BlockchainUpgradeTransaction schedules a node software upgrade.
type BlockchainUpgradeTransaction struct {
	AbstractTransaction
	UpgradePeriod        util.Uint64
	NewBlockchainVersion util.Uint64
}

// NewBlockchainUpgradeTransaction creates an upgrade announcement.
func NewBlockchainUpgradeTransaction(deadline Deadline, period, version util.Uint64, network netmode.Type) (*BlockchainUpgradeTransaction, error) {
	return &BlockchainUpgradeTransaction{
		AbstractTransaction:  newAbstract(BlockchainUpgradeType, deadline, network),
		UpgradePeriod:        period,
		NewBlockchainVersion: version,
	}, nil
}

// Size implements the Transaction interface.
func (tx *BlockchainUpgradeTransaction) Size() int { return HeaderSize + tx.bodySize() }

func (tx *BlockchainUpgradeTransaction) bodySize() int { return 8 + 8 }

func (tx *BlockchainUpgradeTransaction) fill(t *catbuffer.Table) error {
	t.PutU64("upgrade_period", uint64(tx.UpgradePeriod)).
		PutU64("new_blockchain_version", uint64(tx.NewBlockchainVersion))
	return nil
}

func (tx *BlockchainUpgradeTransaction) load(t *catbuffer.Table) error {
	period, err := t.U64("upgrade_period")
	if err != nil {
		return err
	}
	version, err := t.U64("new_blockchain_version")
	if err != nil {
		return err
	}
	tx.UpgradePeriod = util.Uint64(period)
	tx.NewBlockchainVersion = util.Uint64(version)
	return nil
}
