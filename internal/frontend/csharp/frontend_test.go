package csharp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"maplint/internal/analysis"
	"maplint/internal/logging"
	"maplint/internal/mapping"
	"maplint/internal/shape"
)

const profileSource = `
using AutoMapper;

namespace Billing
{
    public class Customer
    {
        public string Name { get; set; }
        public int Age { get; set; }
        public decimal? Discount { get; set; }
        public List<string> Tags { get; set; }
        public Address Address { get; set; }
        public string ReadOnly { get; }
    }

    public class CustomerDto
    {
        public string Name { get; set; }
        public string Age { get; set; }
    }

    public class CustomerProfile : Profile
    {
        public CustomerProfile()
        {
            CreateMap<Customer, CustomerDto>()
                .ForMember(d => d.Name, opt => opt.MapFrom(src => src.Name))
                .ForMember(d => d.Age, opt => opt.Ignore())
                .ReverseMap();
        }
    }
}
`

func loadFixture(t *testing.T, files map[string]string) (*analysis.Unit, []*mapping.Declaration) {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	f, err := New(root, logging.NewNop())
	require.NoError(t, err)

	units, err := f.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, units, 1)
	return units[0], units[0].Declarations
}

func TestLoadExtractsShapes(t *testing.T) {
	unit, _ := loadFixture(t, map[string]string{"CustomerProfile.cs": profileSource})

	customer := unit.Shape("Customer")
	require.NotNil(t, customer)

	name, ok := customer.Member("Name")
	require.True(t, ok)
	require.True(t, name.Settable)
	require.True(t, name.Type.Equal(shape.Primitive("string")))

	discount, ok := customer.Member("Discount")
	require.True(t, ok)
	require.True(t, discount.Nullable)
	require.Equal(t, "decimal?", discount.Type.String())

	tags, ok := customer.Member("Tags")
	require.True(t, ok)
	require.Equal(t, "List<string>", tags.Type.String())

	address, ok := customer.Member("Address")
	require.True(t, ok)
	require.True(t, address.Type.IsUserDefined())

	readOnly, ok := customer.Member("ReadOnly")
	require.True(t, ok)
	require.False(t, readOnly.Settable)

	require.NotNil(t, unit.Shape("CustomerDto"))
	require.NotNil(t, unit.Shape("CustomerProfile"))
}

func TestLoadRecordsUnitRoot(t *testing.T) {
	unit, _ := loadFixture(t, map[string]string{"Nested/CustomerProfile.cs": profileSource})

	require.NotEmpty(t, unit.Root)
	// Locations are root-relative; joining them back onto the root must
	// reach the file regardless of the working directory.
	_, err := os.Stat(unit.ResolvePath("Nested/CustomerProfile.cs"))
	require.NoError(t, err)
}

func TestLoadExtractsDeclarations(t *testing.T) {
	_, decls := loadFixture(t, map[string]string{"CustomerProfile.cs": profileSource})
	require.Len(t, decls, 1)

	decl := decls[0]
	require.Equal(t, "Customer", decl.SourceType)
	require.Equal(t, "CustomerDto", decl.DestType)
	require.True(t, decl.HasReverseMap)
	require.Equal(t, "CustomerProfile.cs", decl.Location.File)
	require.Greater(t, decl.Location.Line, 0)

	require.Len(t, decl.Configs, 2)

	mapFrom := decl.Configs[0]
	require.Equal(t, "Name", mapFrom.DestMember)
	require.Equal(t, mapping.ConfigMapFrom, mapFrom.Kind)
	require.NotNil(t, mapFrom.Expr)
	require.Equal(t, mapping.ExprBareAccess, mapFrom.Expr.Kind)
	require.True(t, mapFrom.Expr.OnParameter)
	require.Equal(t, "Name", mapFrom.Expr.Member)
	require.Equal(t, "src", mapFrom.Expr.Param)

	ignore := decl.Configs[1]
	require.Equal(t, "Age", ignore.DestMember)
	require.Equal(t, mapping.ConfigIgnore, ignore.Kind)
}

func TestLoadSummarizesHazardSites(t *testing.T) {
	source := `
public class OrderProfile : Profile
{
    public OrderProfile()
    {
        CreateMap<Order, OrderDto>()
            .ForMember(d => d.Summary, opt => opt.MapFrom(src => src.Items.Count() + src.Items.Sum(i => i.Price)))
            .ForMember(d => d.CustomerName, opt => opt.MapFrom(src => _repository.GetName(src.CustomerId)))
            .ForMember(d => d.CreatedAt, opt => opt.MapFrom(src => DateTime.Now))
            .ForMember(d => d.Token, opt => opt.MapFrom(src => GetTokenAsync(src.Id).Result));
    }
}
`
	_, decls := loadFixture(t, map[string]string{"OrderProfile.cs": source})
	require.Len(t, decls, 1)
	require.Len(t, decls[0].Configs, 4)

	byMember := map[string]*mapping.ExprShape{}
	for _, cfg := range decls[0].Configs {
		byMember[cfg.DestMember] = cfg.Expr
	}

	summary := byMember["Summary"]
	require.NotNil(t, summary)
	counts := summary.EnumerationCounts()
	require.Equal(t, 2, counts["src.Items"])

	customerName := byMember["CustomerName"]
	require.NotNil(t, customerName)
	require.Len(t, customerName.Sites, 1)
	require.Equal(t, mapping.SiteDependencyCall, customerName.Sites[0].Kind)

	createdAt := byMember["CreatedAt"]
	require.NotNil(t, createdAt)
	require.Len(t, createdAt.Sites, 1)
	require.Equal(t, mapping.SiteNonDeterministic, createdAt.Sites[0].Kind)
	require.Equal(t, "DateTime.Now", createdAt.Sites[0].Accessor)

	token := byMember["Token"]
	require.NotNil(t, token)
	require.Len(t, token.Sites, 1)
	require.Equal(t, mapping.SiteBlockingUnwrap, token.Sites[0].Kind)
}

func TestLoadDoesNotCountLocalEnumerations(t *testing.T) {
	// A materialized lambda enumerates the source accessor exactly once;
	// uses of the local must not be counted against the accessor.
	source := `
public class OrderProfile : Profile
{
    public OrderProfile()
    {
        CreateMap<Order, OrderDto>()
            .ForMember(d => d.Summary, opt => opt.MapFrom(src => { var items = src.Items.ToList(); return items.Count() + items.Sum(i => i.Price); }));
    }
}
`
	_, decls := loadFixture(t, map[string]string{"OrderProfile.cs": source})
	require.Len(t, decls, 1)

	expr := decls[0].Configs[0].Expr
	require.NotNil(t, expr)
	counts := expr.EnumerationCounts()
	require.Equal(t, 1, counts["src.Items"])
	require.NotContains(t, counts, "items")
}

func TestLoadConstantAndOpaqueExpressions(t *testing.T) {
	source := `
public class OrderProfile : Profile
{
    public OrderProfile()
    {
        CreateMap<Order, OrderDto>()
            .ForMember(d => d.Kind, opt => opt.MapFrom(src => "fixed"))
            .ForMember(d => d.Total, opt => opt.MapFrom(MapTotal));
    }
}
`
	_, decls := loadFixture(t, map[string]string{"OrderProfile.cs": source})
	require.Len(t, decls, 1)
	require.Len(t, decls[0].Configs, 2)

	require.Equal(t, mapping.ExprConstant, decls[0].Configs[0].Expr.Kind)
	// A method-group argument is not a lambda; convenience rules must
	// fail closed on it.
	require.Equal(t, mapping.ExprOpaque, decls[0].Configs[1].Expr.Kind)
}

func TestLoadParsesTypeVariants(t *testing.T) {
	source := `
public class Catalog
{
    public int Count { get; set; }
    public DateTime Updated { get; set; }
    public Guid Id { get; set; }
    public int[] Codes { get; set; }
    public Dictionary<string, int> Index { get; set; }
    public IEnumerable<Item> Items { get; set; }
    public Item? Featured { get; set; }
}
`
	unit, _ := loadFixture(t, map[string]string{"Catalog.cs": source})
	catalog := unit.Shape("Catalog")
	require.NotNil(t, catalog)

	tests := []struct {
		member   string
		kind     shape.Kind
		rendered string
	}{
		{"Count", shape.KindPrimitive, "int"},
		{"Updated", shape.KindPrimitive, "DateTime"},
		{"Id", shape.KindPrimitive, "Guid"},
		{"Codes", shape.KindCollection, "Array<int>"},
		{"Index", shape.KindGeneric, "Dictionary<string, int>"},
		{"Items", shape.KindCollection, "IEnumerable<Item>"},
		{"Featured", shape.KindNullable, "Item?"},
	}
	for _, tc := range tests {
		m, ok := catalog.Member(tc.member)
		require.True(t, ok, tc.member)
		require.Equal(t, tc.kind, m.Type.Kind, tc.member)
		require.Equal(t, tc.rendered, m.Type.String(), tc.member)
	}
}

func TestLoadSkipsBuildDirectories(t *testing.T) {
	unit, decls := loadFixture(t, map[string]string{
		"Profiles/CustomerProfile.cs": profileSource,
		"bin/Generated.cs":            profileSource,
		"obj/Generated.cs":            profileSource,
	})

	require.Len(t, decls, 1)
	require.NotNil(t, unit.Shape("Customer"))
}

func TestLoadMergesFilesIntoOneUnit(t *testing.T) {
	orderSource := `
public class Order
{
    public int Id { get; set; }
}
`
	unit, decls := loadFixture(t, map[string]string{
		"Customer.cs": profileSource,
		"Order.cs":    orderSource,
	})

	require.NotNil(t, unit.Shape("Customer"))
	require.NotNil(t, unit.Shape("Order"))
	require.Len(t, decls, 1)
}
