package frames

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/viper"
)

// ConfigEnv is the environment variable holding the directory of conf.toml.
const ConfigEnv = "FRAMES_CONFIG"

// Config is the frames configuration, read from a conf.toml file.
type Config struct {
	J2000Body        string
	NutationInterval float64 // seconds
	MoonRotation     RotationDataSource
	EphemerisSource  string // analytic or de
	DEFile           string
	VSOP87Dir        string
	EOP              EarthOrientationProvider
	v                *viper.Viper
}

// LoadConfig reads the configuration. The path may be a conf.toml file or the
// directory containing it; if empty, the FRAMES_CONFIG environment variable is used.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigEnv)
		if path == "" {
			return nil, fmt.Errorf("environment variable `%s` is missing or empty", ConfigEnv)
		}
	}
	v := viper.New()
	v.SetConfigType("toml")
	if strings.HasSuffix(path, ".toml") {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("conf")
		v.AddConfigPath(path)
	}
	v.SetDefault("general.j2000body", "Earth")
	v.SetDefault("earth.nutation_interval", 60.0)
	v.SetDefault("moon.rotation_source", IAUSimplified.String())
	v.SetDefault("ephemeris.source", "analytic")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%s: %s", filepath.Join(path, "conf.toml"), err)
	}
	return configFromViper(v)
}

func configFromViper(v *viper.Viper) (*Config, error) {
	moon, err := RotationDataSourceFromString(v.GetString("moon.rotation_source"))
	if err != nil {
		return nil, err
	}
	c := &Config{
		J2000Body:        v.GetString("general.j2000body"),
		NutationInterval: v.GetFloat64("earth.nutation_interval"),
		MoonRotation:     moon,
		EphemerisSource:  strings.ToLower(v.GetString("ephemeris.source")),
		DEFile:           v.GetString("ephemeris.de_file"),
		VSOP87Dir:        v.GetString("ephemeris.vsop87_dir"),
		v:                v,
	}
	if c.EphemerisSource != "analytic" && c.EphemerisSource != "de" {
		return nil, fmt.Errorf("unknown ephemeris source '%s'", c.EphemerisSource)
	}
	if c.EOP, err = eopFromViper(v); err != nil {
		return nil, err
	}
	return c, nil
}

// eopFromViper returns a table provider if eop.table is set, else a constant one.
func eopFromViper(v *viper.Viper) (EarthOrientationProvider, error) {
	if !v.IsSet("eop.table") {
		return NewConstantEOP(v.GetFloat64("eop.ut1utc"), v.GetFloat64("eop.xp"), v.GetFloat64("eop.yp"), v.GetFloat64("eop.lod")), nil
	}
	rows, ok := v.Get("eop.table").([]interface{})
	if !ok {
		return nil, fmt.Errorf("eop.table must be a list of [mjd, xp, yp, ut1utc, lod] rows")
	}
	records := make([]EOPRecord, len(rows))
	for i, row := range rows {
		vals, ok := row.([]interface{})
		if !ok || len(vals) != 5 {
			return nil, fmt.Errorf("eop.table row %d must be [mjd, xp, yp, ut1utc, lod]", i)
		}
		f := make([]float64, 5)
		for j, val := range vals {
			switch n := val.(type) {
			case float64:
				f[j] = n
			case int64:
				f[j] = float64(n)
			case int:
				f[j] = float64(n)
			default:
				return nil, fmt.Errorf("eop.table row %d column %d is not a number", i, j)
			}
		}
		records[i] = EOPRecord{MJD: f[0], Xp: f[1], Yp: f[2], Ut1Utc: f[3], LOD: f[4]}
	}
	return NewEOPTable(records, nil)
}

// Ephemeris opens the configured ephemeris provider.
func (c *Config) Ephemeris() (EphemerisProvider, error) {
	if c.EphemerisSource == "de" {
		if c.DEFile == "" {
			return nil, fmt.Errorf("%w: ephemeris.de_file not set", ErrMissingProvider)
		}
		return NewDEEphemeris(c.DEFile)
	}
	return NewAnalyticEphemeris(c.VSOP87Dir), nil
}

// SolarSystem returns the default solar system with the configured ephemeris,
// Earth nutation interval and Moon rotation data source.
func (c *Config) SolarSystem() (*SolarSystem, error) {
	ephem, err := c.Ephemeris()
	if err != nil {
		return nil, err
	}
	return c.configure(NewSolarSystem(ephem))
}

func (c *Config) configure(s *SolarSystem) (*SolarSystem, error) {
	earth, err := s.Body("Earth")
	if err != nil {
		return nil, err
	}
	earth.NutationInterval = c.NutationInterval
	moon, err := s.Body("Moon")
	if err != nil {
		return nil, err
	}
	moon.RotationSource = c.MoonRotation
	return s, nil
}

// FrameNames returns the names of the declared coordinate systems, sorted.
func (c *Config) FrameNames() []string {
	var names []string
	for name := range c.v.GetStringMap("frames") {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CoordinateSystems builds and initializes every coordinate system declared
// under frames.<name>. The built-in MJ2000Eq system about the Earth is always
// available as "EarthMJ2000Eq".
func (c *Config) CoordinateSystems(solar *SolarSystem, logger kitlog.Logger) (map[string]*CoordinateSystem, error) {
	if _, err := c.Stations(solar); err != nil {
		return nil, err
	}
	systems := make(map[string]*CoordinateSystem)
	builtin := NewCoordinateSystem("EarthMJ2000Eq", "Earth", NewAxes(MJ2000Eq))
	systems[strings.ToLower(builtin.Name)] = builtin
	for _, name := range c.FrameNames() {
		cs, err := c.coordinateSystem(name)
		if err != nil {
			return nil, err
		}
		systems[name] = cs
	}
	cip := NewSeriesCIP()
	cip.Terms = c.EOP.NutationCoefficients()
	conv := NewTimeConverter(c.EOP)
	for _, cs := range systems {
		cs.J2000BodyName = c.J2000Body
		cs.SetSolarSystem(solar)
		cs.SetEarthOrientation(c.EOP)
		cs.SetEpochConverter(conv)
		cs.SetCIPProvider(cip)
		cs.SetLogger(logger)
		if err := cs.Initialize(); err != nil {
			return nil, err
		}
	}
	return systems, nil
}

// Stations builds every station declared under stations.<name> and adds it
// to the solar system, where frames may use it as an origin.
func (c *Config) Stations(solar *SolarSystem) ([]*Station, error) {
	var names []string
	for name := range c.v.GetStringMap("stations") {
		names = append(names, name)
	}
	sort.Strings(names)
	stations := make([]*Station, 0, len(names))
	for _, name := range names {
		key := func(k string) string { return "stations." + name + "." + k }
		body := c.v.GetString(key("body"))
		if body == "" {
			body = "Earth"
		}
		st, err := NewStation(name, c.v.GetFloat64(key("altitude")), c.v.GetFloat64(key("elevation")),
			c.v.GetFloat64(key("latitude")), c.v.GetFloat64(key("longitude")), body, solar, c.EOP)
		if err != nil {
			return nil, err
		}
		if err := solar.AddPoint(st); err != nil {
			return nil, configErr(name, err)
		}
		stations = append(stations, st)
	}
	return stations, nil
}

// coordinateSystem reads one frames.<name> definition.
func (c *Config) coordinateSystem(name string) (*CoordinateSystem, error) {
	key := func(k string) string { return "frames." + name + "." + k }
	kind, err := AxisKindFromString(c.v.GetString(key("axes")))
	if err != nil {
		return nil, configErr(name, err)
	}
	axes := NewAxes(kind)
	if c.v.IsSet(key("epoch")) {
		axes.Epoch = c.v.GetFloat64(key("epoch"))
	} else if axes.UsesEpoch() {
		return nil, configErr(name, fmt.Errorf("%s axes need an epoch", kind))
	}
	if c.v.IsSet(key("interval")) {
		axes.SetUpdateInterval(c.v.GetFloat64(key("interval")))
	}
	if kind == ObjectReferenced {
		axes.Primary = c.v.GetString(key("primary"))
		axes.Secondary = c.v.GetString(key("secondary"))
		for k, dst := range map[string]*ObjectAxis{"xaxis": &axes.X, "yaxis": &axes.Y, "zaxis": &axes.Z} {
			if *dst, err = ObjectAxisFromString(c.v.GetString(key(k))); err != nil {
				return nil, configErr(name, err)
			}
		}
	}
	origin := c.v.GetString(key("origin"))
	if origin == "" {
		origin = "Earth"
	}
	return NewCoordinateSystem(name, origin, axes), nil
}
