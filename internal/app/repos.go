package app

import (
	"gorm.io/gorm"

	dataagg "github.com/yungbote/partvault-backend/internal/data/aggregates"
	partrepos "github.com/yungbote/partvault-backend/internal/data/repos/parts"
	domainagg "github.com/yungbote/partvault-backend/internal/domain/aggregates"
	"github.com/yungbote/partvault-backend/internal/observability"
	"github.com/yungbote/partvault-backend/internal/pkg/logger"
)

type Repos struct {
	Parts         partrepos.PartRepo
	Versions      partrepos.PartVersionRepo
	Structures    partrepos.PartStructureRepo
	Revisions     partrepos.PartRevisionRepo
	Links         partrepos.PartLinkRepo
	Manufacturers partrepos.ManufacturerPartRepo
	Suppliers     partrepos.SupplierPartRepo
	VersionLinks  partrepos.VersionLinkRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Parts:         partrepos.NewPartRepo(db, log),
		Versions:      partrepos.NewPartVersionRepo(db, log),
		Structures:    partrepos.NewPartStructureRepo(db, log),
		Revisions:     partrepos.NewPartRevisionRepo(db, log),
		Links:         partrepos.NewPartLinkRepo(db, log),
		Manufacturers: partrepos.NewManufacturerPartRepo(db, log),
		Suppliers:     partrepos.NewSupplierPartRepo(db, log),
		VersionLinks:  partrepos.NewVersionLinkRepo(db, log),
	}
}

type Aggregates struct {
	Part      domainagg.PartAggregate
	Structure domainagg.StructureAggregate
}

func wireAggregates(cfg Config, db *gorm.DB, log *logger.Logger, metrics *observability.Metrics, repos Repos) Aggregates {
	log.Info("Wiring aggregates...")
	base := dataagg.BaseDeps{
		DB:        db,
		Log:       log,
		Hooks:     dataagg.NewObservabilityHooks(metrics),
		LockGuard: dataagg.NewLockGuard(cfg.LockTimeout),
	}
	return Aggregates{
		Part: dataagg.NewPartAggregate(dataagg.PartAggregateDeps{
			Base:          base,
			Parts:         repos.Parts,
			Versions:      repos.Versions,
			Structures:    repos.Structures,
			Revisions:     repos.Revisions,
			Links:         repos.Links,
			Manufacturers: repos.Manufacturers,
			Suppliers:     repos.Suppliers,
			VersionLinks:  repos.VersionLinks,
		}),
		Structure: dataagg.NewStructureAggregate(dataagg.StructureAggregateDeps{
			Base:       base,
			Parts:      repos.Parts,
			Versions:   repos.Versions,
			Structures: repos.Structures,
			Revisions:  repos.Revisions,
		}),
	}
}
