package providers

func SetupProcessor() *Processor {
	processor := NewProcessor()

	processor.RegisterRailProvider(NewMockRail("MockRail"))

	return processor
}
