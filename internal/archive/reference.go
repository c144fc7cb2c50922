package archive

import (
	"fmt"
	"time"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/builder"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/store"
	"github.com/dnswlt/egeria/internal/typedefs"
)

const (
	ReferenceArchiveName    = "CocoReferenceData"
	ReferenceArchiveVersion = "1.0.0"
)

type referenceHost struct {
	qualifiedName   string
	name            string
	operatingSystem string
	architecture    string
	zones           []string
}

type referenceSystem struct {
	qualifiedName  string
	name           string
	description    string
	capabilityType string
	version        string
	host           string // qualified name of the deployment host
}

type blueprintMember struct {
	system string // qualified name
	role   string
}

type referenceBlueprint struct {
	qualifiedName string
	displayName   string
	description   string
	version       string
	members       []blueprintMember
}

var referenceHosts = []referenceHost{
	{"host:coco-dc1-01", "coco-dc1-01", "Linux", "x86_64", []string{"data-centre"}},
	{"host:coco-dc1-02", "coco-dc1-02", "Linux", "x86_64", []string{"data-centre"}},
	{"host:coco-cloud-01", "coco-cloud-01", "Linux", "arm64", []string{"cloud"}},
}

var referenceSystems = []referenceSystem{
	{"system:cocoMDS1", "cocoMDS1", "Metadata server for the data lake.", "Metadata Server", "4.3", "host:coco-dc1-01"},
	{"system:payroll-db", "Payroll database", "Employee payroll records.", "Database Server", "15.4", "host:coco-dc1-02"},
	{"system:hr-app", "HR application", "Employee onboarding and records.", "Application Server", "2.1", "host:coco-dc1-02"},
	{"system:clinical-trials", "Clinical trials store", "Results of clinical trials.", "File Server", "1.0", "host:coco-cloud-01"},
	{"system:data-lake", "Data lake", "Landing area for operational data.", "Object Store", "3.0", "host:coco-cloud-01"},
}

var referenceBlueprints = []referenceBlueprint{
	{
		qualifiedName: "blueprint:personalized-medicine",
		displayName:   "Personalized medicine",
		description:   "Systems supporting the **personalized medicine** initiative.",
		version:       "1.0",
		members: []blueprintMember{
			{"system:clinical-trials", "trial results"},
			{"system:data-lake", "analytics landing zone"},
			{"system:cocoMDS1", "catalog"},
		},
	},
	{
		qualifiedName: "blueprint:employee-management",
		displayName:   "Employee management",
		description:   "Systems that hold *employee* data.",
		version:       "2.0",
		members: []blueprintMember{
			{"system:hr-app", "system of record"},
			{"system:payroll-db", "payroll"},
		},
	},
}

// ReferenceArchive returns the archive with Coco Pharmaceuticals' hosts,
// systems and solution blueprints.
func ReferenceArchive(types *typedefs.Registry, creationDate time.Time) (*Archive, error) {
	w, err := NewWriter(types, Header{
		Name:         ReferenceArchiveName,
		Description:  "Reference data: hosts, systems and solution blueprints.",
		Type:         TypeContentPack,
		Originator:   "Coco Pharmaceuticals",
		Version:      ReferenceArchiveVersion,
		CreationDate: creationDate,
	})
	if err != nil {
		return nil, err
	}
	const methodName = "ReferenceArchive"
	helper := w.Helper()

	hostGUIDs := make(map[string]string)
	for _, h := range referenceHosts {
		guid, err := w.AddEntity(builder.NewAssetBuilder(helper, &beans.Asset{
			Referenceable: beans.Referenceable{
				ElementHeader: beans.ElementHeader{
					TypeName: mapper.HostTypeName,
					ExtendedProperties: map[string]any{
						mapper.OperatingSystemPropertyName: h.operatingSystem,
						mapper.ArchitecturePropertyName:    h.architecture,
					},
				},
				QualifiedName: h.qualifiedName,
			},
			Name:  h.name,
			Zones: h.zones,
		}))
		if err != nil {
			return nil, fmt.Errorf("host %s: %w", h.qualifiedName, err)
		}
		hostGUIDs[h.qualifiedName] = guid
	}

	systemGUIDs := make(map[string]string)
	for _, s := range referenceSystems {
		guid, err := w.AddEntity(builder.NewSoftwareServerCapabilityBuilder(helper, &beans.SoftwareServerCapability{
			Referenceable:     beans.Referenceable{QualifiedName: s.qualifiedName},
			Name:              s.name,
			Description:       s.description,
			CapabilityType:    s.capabilityType,
			CapabilityVersion: s.version,
		}))
		if err != nil {
			return nil, fmt.Errorf("system %s: %w", s.qualifiedName, err)
		}
		systemGUIDs[s.qualifiedName] = guid

		hostGUID, ok := hostGUIDs[s.host]
		if !ok {
			return nil, fmt.Errorf("system %s: unknown host %s", s.qualifiedName, s.host)
		}
		props := helper.AddDate(nil, mapper.DeploymentTimePropertyName, creationDate)
		if _, err := w.AddRelationship(mapper.SupportedSoftwareCapabilityRelationshipName, hostGUID, guid, props); err != nil {
			return nil, fmt.Errorf("system %s: %w", s.qualifiedName, err)
		}
	}

	for _, bp := range referenceBlueprints {
		b := builder.NewSolutionBlueprintBuilder(helper, &beans.SolutionBlueprint{
			Referenceable: beans.Referenceable{QualifiedName: bp.qualifiedName},
			DisplayName:   bp.displayName,
			Description:   bp.description,
			Version:       bp.version,
		})
		guid, err := w.AddEntity(b)
		if err != nil {
			return nil, fmt.Errorf("blueprint %s: %w", bp.qualifiedName, err)
		}
		for _, m := range bp.members {
			systemGUID, ok := systemGUIDs[m.system]
			if !ok {
				return nil, fmt.Errorf("blueprint %s: unknown system %s", bp.qualifiedName, m.system)
			}
			props := b.CompositionProperties(methodName, m.role, "")
			if _, err := w.AddRelationship(mapper.SolutionBlueprintCompositionRelationshipName, guid, systemGUID, props); err != nil {
				return nil, fmt.Errorf("blueprint %s: %w", bp.qualifiedName, err)
			}
		}
	}
	return w.Archive(), nil
}

// WriteReferenceArchive writes the reference archive to path in st.
func WriteReferenceArchive(st store.Store, path string, types *typedefs.Registry, creationDate time.Time) (*Archive, error) {
	a, err := ReferenceArchive(types, creationDate)
	if err != nil {
		return nil, err
	}
	if err := Write(st, path, a); err != nil {
		return nil, err
	}
	return a, nil
}
