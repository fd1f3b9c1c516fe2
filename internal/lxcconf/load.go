package lxcconf

import (
	"os"

	"github.com/mihalicyn/golxc/internal/errkind"
	"github.com/mihalicyn/golxc/internal/paths"
)

// Load reads name's persisted config file and returns a populated
// Conf, or CONFIG_INVALID style failure via errkind.
func Load(name string) (*Conf, error) {
	conf := NewDefault(name)
	conf.ConfigDir = paths.ContainerDir(name)

	f, err := os.Open(paths.ConfigFile(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errkind.New(errkind.ConfigInvalid, "no such container "+name, err)
		}
		return nil, errkind.New(errkind.IO, "open config for "+name, err)
	}
	defer f.Close()

	if err := Parse(f, conf); err != nil {
		return nil, err
	}
	return conf, nil
}

// Create writes a fresh, empty-networking config for name, applying
// overrides read from an optional template file (the create
// command's `-f CONFIG`), grounded on original_source's
// lxc_create.c (-n/-f flags, lxc_conf_init/lxc_config_read/lxc_create).
func Create(name string, templatePath string) error {
	dir := paths.ContainerDir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errkind.New(errkind.IO, "create container directory", err)
	}

	conf := NewDefault(name)
	if templatePath != "" {
		tf, err := os.Open(templatePath)
		if err != nil {
			return errkind.New(errkind.ConfigInvalid, "open template "+templatePath, err)
		}
		defer tf.Close()
		if err := Parse(tf, conf); err != nil {
			return err
		}
	}

	return Save(conf)
}

// Save writes conf back to its container's config file, byte for byte
// in the grammar Parse accepts, so it round-trips through Load.
func Save(conf *Conf) error {
	dir := paths.ContainerDir(conf.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errkind.New(errkind.IO, "create container directory", err)
	}
	f, err := os.Create(paths.ConfigFile(conf.Name))
	if err != nil {
		return errkind.New(errkind.IO, "write config for "+conf.Name, err)
	}
	defer f.Close()
	return render(f, conf)
}
