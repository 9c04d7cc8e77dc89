package benchmark

import (
	"context"
	"testing"

	"github.com/bufbuild/protocompile"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/anirudhraja/flexmsg"
	"github.com/anirudhraja/flexmsg/buoy"
	"github.com/anirudhraja/flexmsg/message"
)

// Global test data and clients
var (
	client *flexmsg.Flexmsg

	layoutSample message.Instance
	taggedSample message.Instance
	layoutData   []byte

	locationDescriptor protoreflect.MessageDescriptor
	dynamicSample      *dynamicpb.Message
	dynamicData        []byte
)

func init() {
	setupClient()
	setupDynamic()
}

func setupClient() {
	client = flexmsg.New()
	if err := buoy.Register(client.GetRegistry()); err != nil {
		panic("Failed to register layout schemas: " + err.Error())
	}
	if err := buoy.RegisterTagged(client.GetRegistry()); err != nil {
		panic("Failed to register tagged schemas: " + err.Error())
	}
	if err := client.Freeze(); err != nil {
		panic(err)
	}

	layoutSample = buoy.Location{Latitude: 33.4567, NorthSouth: 'N', Longitude: 124.8724, EastWest: 'E'}
	tagged, err := buoy.TaggedSamples(client.GetRegistry())
	if err != nil {
		panic("Failed to build tagged samples: " + err.Error())
	}
	taggedSample = tagged[1]

	layoutData, err = client.Marshal(layoutSample)
	if err != nil {
		panic("Failed to create payload: " + err.Error())
	}
}

func setupDynamic() {
	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			ImportPaths: []string{"../proto", "../buoy"},
		}),
	}
	files, err := compiler.Compile(context.Background(), "buoy.proto")
	if err != nil {
		panic("Failed to compile buoy.proto: " + err.Error())
	}
	locationDescriptor = files[0].Messages().ByName("Location")

	fields := locationDescriptor.Fields()
	dynamicSample = dynamicpb.NewMessage(locationDescriptor)
	dynamicSample.Set(fields.ByName("latitude"), protoreflect.ValueOfFloat64(33.4567))
	dynamicSample.Set(fields.ByName("north_south"), protoreflect.ValueOfUint32('N'))
	dynamicSample.Set(fields.ByName("longitude"), protoreflect.ValueOfFloat64(124.8724))
	dynamicSample.Set(fields.ByName("east_west"), protoreflect.ValueOfUint32('E'))

	dynamicData, err = proto.Marshal(dynamicSample)
	if err != nil {
		panic("Failed to create dynamic payload: " + err.Error())
	}
}

func BenchmarkRender_Layout(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := client.Render(layoutSample); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRender_Tagged(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := client.Render(taggedSample); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMarshal_Flexmsg(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := client.Marshal(layoutSample); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMarshal_DynamicPB(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := proto.Marshal(dynamicSample); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_Flexmsg(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := client.Parse(layoutData); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_DynamicPB(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		msg := dynamicpb.NewMessage(locationDescriptor)
		if err := proto.Unmarshal(dynamicData, msg); err != nil {
			b.Fatal(err)
		}
	}
}
