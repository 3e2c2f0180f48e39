// Package hostsearch declares the field registry of the resource pool host
// search box: business, DB type, addresses, location, hardware ranges, machine spec
// and cloud area filters.
package hostsearch

import (
	"github.com/goliatone/go-searchform/pkg/field"
	"github.com/goliatone/go-searchform/pkg/registry"
	"github.com/goliatone/go-searchform/pkg/validation"
	"github.com/goliatone/go-searchform/pkg/widgets"
)

// Field keys in display order.
const (
	KeyBusiness     = "for_biz"
	KeyResourceType = "resource_type"
	KeyHosts        = "hosts"
	KeyAgentStatus  = "agent_status"
	KeyCity         = "city"
	KeySubzones     = "subzone_ids"
	KeyDeviceClass  = "device_class"
	KeyOSType       = "os_type"
	KeyMountPoint   = "mount_point"
	KeyCPU          = "cpu"
	KeyMemory       = "mem"
	KeyDisk         = "disk"
	KeyDiskType     = "disk_type"
	KeySpec         = "spec_id"
	KeyCloudAreas   = "bk_cloud_ids"
)

// DefaultLabels are the untranslated field labels.
var DefaultLabels = map[string]string{
	KeyBusiness:     "Business",
	KeyResourceType: "DB type",
	KeyHosts:        "IP",
	KeyAgentStatus:  "Agent status",
	KeyCity:         "Region - Zone",
	KeyDeviceClass:  "Device class",
	KeyOSType:       "OS type",
	KeyMountPoint:   "Mount point",
	KeyCPU:          "CPU (cores)",
	KeyMemory:       "Memory (GB)",
	KeyDisk:         "Disk (GB)",
	KeyDiskType:     "Disk type",
	KeySpec:         "Spec",
	KeyCloudAreas:   "Cloud area",
}

// Messages holds the pre-localized validation messages.
type Messages struct {
	InvalidIPs   validation.ListMessage
	InvalidRange string
}

// Option customises the registry.
type Option func(*config)

type config struct {
	services map[string]field.Service
	labels   map[string]string
	messages Messages
	widgets  registry.WidgetResolver
}

// WithService attaches the lookup service for the field under key. Lookup
// fields without a service advertise the lookup but fetch nothing.
func WithService(key string, svc field.Service) Option {
	return func(c *config) {
		c.services[key] = svc
	}
}

// WithLabels overrides labels by field key.
func WithLabels(labels map[string]string) Option {
	return func(c *config) {
		for key, label := range labels {
			c.labels[key] = label
		}
	}
}

// WithMessages overrides the validation messages. Zero fields keep their
// defaults.
func WithMessages(messages Messages) Option {
	return func(c *config) {
		if messages.InvalidIPs != nil {
			c.messages.InvalidIPs = messages.InvalidIPs
		}
		if messages.InvalidRange != "" {
			c.messages.InvalidRange = messages.InvalidRange
		}
	}
}

// WithWidgets replaces the default widget resolver.
func WithWidgets(resolver registry.WidgetResolver) Option {
	return func(c *config) {
		c.widgets = resolver
	}
}

// New builds the host search registry.
func New(opts ...Option) (*registry.Registry, error) {
	cfg := &config{
		services: make(map[string]field.Service),
		labels:   make(map[string]string, len(DefaultLabels)),
		messages: Messages{
			InvalidIPs:   validation.DefaultIPv4Message,
			InvalidRange: validation.DefaultRangeMessage,
		},
		widgets: widgets.NewRegistry(),
	}
	for key, label := range DefaultLabels {
		cfg.labels[key] = label
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	descs := cfg.descriptors()
	for i := range descs {
		descs[i].Label = cfg.labels[descs[i].Key]
	}
	return registry.New(descs, registry.WithWidgets(cfg.widgets))
}

// MustNew is New for callers with static options.
func MustNew(opts ...Option) *registry.Registry {
	reg, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return reg
}

func (c *config) descriptors() []field.Descriptor {
	rangeOrder := validation.RangeOrder(c.messages.InvalidRange)

	return []field.Descriptor{
		{
			Key:    KeyBusiness,
			Type:   field.TypeNumber,
			Lookup: c.lookup(KeyBusiness, "bk_biz_id", "display_name"),
		},
		{
			Key:    KeyResourceType,
			Type:   field.TypeString,
			Lookup: c.lookup(KeyResourceType, "id", "name"),
		},
		{
			Key:       KeyHosts,
			Type:      field.TypeArray,
			Flex:      2,
			Validator: validation.IPv4List(c.messages.InvalidIPs),
		},
		{Key: KeyAgentStatus, Type: field.TypeNumber},
		{
			Key:     KeyCity,
			Type:    field.TypeString,
			Flex:    2,
			Related: []field.Related{{Name: KeySubzones, Type: field.TypeArray}},
		},
		{Key: KeyDeviceClass, Type: field.TypeString},
		{Key: KeyOSType, Type: field.TypeString},
		{
			// Mount point records carry the path as both identifier and label.
			Key:    KeyMountPoint,
			Type:   field.TypeString,
			Lookup: c.lookup(KeyMountPoint, KeyMountPoint, KeyMountPoint),
		},
		{Key: KeyCPU, Type: field.TypeRange, Validator: rangeOrder},
		{Key: KeyMemory, Type: field.TypeRange, Validator: rangeOrder},
		{Key: KeyDisk, Type: field.TypeRange, Validator: rangeOrder},
		{Key: KeyDiskType, Type: field.TypeString},
		{
			Key:    KeySpec,
			Type:   field.TypeNumber,
			Flex:   2,
			Lookup: c.lookup(KeySpec, "spec_id", "spec_name"),
		},
		{
			Key:    KeyCloudAreas,
			Type:   field.TypeArray,
			Lookup: c.lookup(KeyCloudAreas, "bk_cloud_id", "bk_cloud_name"),
		},
	}
}

func (c *config) lookup(key, idField, nameField string) *field.Lookup {
	return &field.Lookup{
		Service:   c.services[key],
		IDField:   idField,
		NameField: nameField,
	}
}
